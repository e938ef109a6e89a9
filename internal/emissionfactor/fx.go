package emissionfactor

import (
	"github.com/utkalworks/floorops/internal/emissionfactor/repository"
	"github.com/utkalworks/floorops/internal/emissionfactor/service"
	"go.uber.org/fx"
)

var Module = fx.Module("emissionfactor.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
