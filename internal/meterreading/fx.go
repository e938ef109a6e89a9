package meterreading

import (
	"github.com/utkalworks/floorops/internal/meterreading/repository"
	"github.com/utkalworks/floorops/internal/meterreading/service"
	"go.uber.org/fx"
)

var Module = fx.Module("meterreading.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
