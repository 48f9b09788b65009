package main

import (
	"context"
	"log"
	"os"

	"github.com/biwott-v/campus-connect-cli/internal/buildinfo"
	"github.com/biwott-v/campus-connect-cli/internal/client/cli"
	"github.com/biwott-v/campus-connect-cli/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
