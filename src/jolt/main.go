package main

import (
	"github.com/jolt-ai/jolt-host/src/jolt/app"
	"go.uber.org/fx"
)

func opts() fx.Option {
	return fx.Options(
		app.Module,
	)
}

func main() {
	fx.New(opts()).Run()
}
