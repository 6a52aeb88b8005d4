package profile

import (
	"github.com/campuskit/ethos/internal/profile/repository"
	"github.com/campuskit/ethos/internal/profile/service"
	"go.uber.org/fx"
)

var Module = fx.Module("profile",
	fx.Provide(
		repository.New,
		service.New,
	),
)
