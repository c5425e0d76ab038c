package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/klokku/ledger/internal/app"
	"github.com/klokku/ledger/internal/cli"
	log "github.com/sirupsen/logrus"
)

func init() {
	level := os.Getenv("LOG_LEVEL")
	if level != "" {
		logrusLevel, err := log.ParseLevel(level)
		if err != nil {
			log.Fatal(err)
		}
		log.SetLevel(logrusLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configPath := os.Getenv("LEDGER_CONFIG")
	if configPath == "" {
		configPath = "./config/application.yaml"
	}

	application, err := app.NewApplication(ctx, configPath)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	defer application.Close()

	if err := cli.NewRootCmd(application.CLI()).ExecuteContext(ctx); err != nil {
		log.Error(err)
		stop()
		application.Close()
		os.Exit(1)
	}
}
