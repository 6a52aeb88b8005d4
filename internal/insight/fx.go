package insight

import (
	"github.com/campuskit/ethos/internal/insight/generator"
	"github.com/campuskit/ethos/internal/insight/repository"
	"github.com/campuskit/ethos/internal/insight/service"
	"go.uber.org/fx"
)

var Module = fx.Module("insight",
	fx.Provide(
		repository.New,
		service.New,
		generator.New,
	),
)
