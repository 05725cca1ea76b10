package main

import (
	"time"

	"go.uber.org/fx"

	"github.com/Conte777/NewsFlow/services/relay-service/internal/app"
)

func main() {
	fx.New(
		app.CreateApp(),
		// interactive reader authorization may need a while on first run
		fx.StartTimeout(10*time.Minute),
		fx.StopTimeout(30*time.Second),
	).Run()
}
