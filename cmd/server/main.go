package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/trophy/internal/buildinfo"
	"github.com/dmitrijs2005/trophy/internal/server"
	"github.com/dmitrijs2005/trophy/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
