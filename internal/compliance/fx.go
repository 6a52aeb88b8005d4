package compliance

import (
	"github.com/campuskit/ethos/internal/compliance/repository"
	"github.com/campuskit/ethos/internal/compliance/service"
	"go.uber.org/fx"
)

var Module = fx.Module("compliance",
	fx.Provide(
		repository.New,
		service.New,
	),
)
