package main

import (
	"context"
	"fmt"

	"github.com/marzhmallo/baranex-community-connect-sub002/internal/client"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/config"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/logger"
	"github.com/marzhmallo/baranex-community-connect-sub002/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	printBuildInfo(buildInfo)

	log := logger.NewClientLogger("portal")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx := logger.WithContext(context.Background(), log)

	app, err := client.NewApp(ctx, cfg, buildInfo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Err(err).Msg("error closing client app")
		}
	}()

	if err = app.Run(ctx); err != nil {
		log.Err(err).Msg("client run error")
	}
}

func printBuildInfo(info models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", info.Version)
	fmt.Printf("Build date: %s\n", info.Date)
	fmt.Printf("Build commit: %s\n", info.Commit)
}
