package productionlog

import (
	"github.com/utkalworks/floorops/internal/productionlog/repository"
	"github.com/utkalworks/floorops/internal/productionlog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("productionlog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
