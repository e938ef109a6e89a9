package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/utkalworks/floorops/internal/clock"
	"github.com/utkalworks/floorops/internal/config"
	"github.com/utkalworks/floorops/internal/migration"
	"github.com/utkalworks/floorops/internal/observability"
	"github.com/utkalworks/floorops/internal/server"
	"github.com/utkalworks/floorops/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
