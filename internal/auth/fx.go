package auth

import (
	"github.com/campuskit/ethos/internal/auth/repository"
	"github.com/campuskit/ethos/internal/auth/service"
	"github.com/campuskit/ethos/internal/auth/session"
	"go.uber.org/fx"
)

var Module = fx.Module("auth",
	fx.Provide(
		repository.NewUserRepository,
		repository.NewSessionRepository,
		service.New,
		session.NewManager,
	),
)
