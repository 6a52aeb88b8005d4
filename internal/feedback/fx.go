package feedback

import (
	"github.com/campuskit/ethos/internal/feedback/repository"
	"github.com/campuskit/ethos/internal/feedback/service"
	"go.uber.org/fx"
)

var Module = fx.Module("feedback",
	fx.Provide(
		repository.New,
		service.New,
	),
)
