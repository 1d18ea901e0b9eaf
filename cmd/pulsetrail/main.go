package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/pulsetrail/pulsetrail/internal/config"
	"github.com/pulsetrail/pulsetrail/internal/migration"
	"github.com/pulsetrail/pulsetrail/internal/observability"
	"github.com/pulsetrail/pulsetrail/internal/server"
	"github.com/pulsetrail/pulsetrail/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
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
