package activity

import (
	"github.com/pulsetrail/pulsetrail/internal/activity/repository"
	"github.com/pulsetrail/pulsetrail/internal/activity/service"
	"go.uber.org/fx"
)

var Module = fx.Module("activity.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
