package usagelog

import (
	"github.com/campuskit/ethos/internal/usagelog/repository"
	"github.com/campuskit/ethos/internal/usagelog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("usagelog",
	fx.Provide(
		repository.New,
		service.New,
	),
)
