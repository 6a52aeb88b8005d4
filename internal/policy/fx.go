package policy

import (
	"github.com/campuskit/ethos/internal/policy/repository"
	"github.com/campuskit/ethos/internal/policy/service"
	"go.uber.org/fx"
)

var Module = fx.Module("policy",
	fx.Provide(
		repository.New,
		service.New,
	),
)
