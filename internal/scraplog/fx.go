package scraplog

import (
	"github.com/utkalworks/floorops/internal/scraplog/repository"
	"github.com/utkalworks/floorops/internal/scraplog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("scraplog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
