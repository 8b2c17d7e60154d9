package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/non-fungible-user/starknet/internal/config"
)

func main() {
	// optional .env beside the binary, real deployments use the environment
	godotenv.Load()

	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	app := cli.NewApp()
	app.Version = "0.1.0"
	app.Name = "starknetd"
	app.Usage = "batch engine driving StarkNet accounts through their action budgets"
	app.Commands = append(
		app.Commands,
		&initledger,
		&warmup,
		&warmupWithGas,
		&warmupLowBank,
		&collect,
		&send,
		&withdrawToStarknet,
		&bridge,
	)

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("run failed")
	}
}

// runCtx is cancelled on SIGINT/SIGTERM so a stop request never interrupts a
// ledger write mid-flight.
func runCtx() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(
		context.Background(), syscall.SIGINT, syscall.SIGTERM,
	)
}
