package esg

import (
	"github.com/utkalworks/floorops/internal/esg/service"
	"go.uber.org/fx"
)

var Module = fx.Module("esg.service",
	fx.Provide(service.New),
)
