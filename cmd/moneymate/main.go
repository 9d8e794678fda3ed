package main

import (
	"os"

	"github.com/franballerio/moneyMate/internal/amqp"
	"github.com/franballerio/moneyMate/internal/bot"
	"github.com/franballerio/moneyMate/internal/cli"
	"github.com/franballerio/moneyMate/internal/log"
	"github.com/franballerio/moneyMate/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentBot)

	logger.Info("Starting moneymate")

	cfg := cli.LoadAndValidateConfig(logger)

	ledger := cli.OpenLedger(logger, cfg.SQLiteDBPath)
	defer ledger.Close()

	// The bot works without a broker; expenses just stay pending until a
	// worker picks them up through the periodic sweep.
	var publisher services.SyncPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Mirror publishing disabled", log.FieldError, err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
		}
	}

	expenses := services.NewExpenseService(ledger, publisher)
	router := bot.NewRouter(expenses, ledger, nil)

	ctx, stop := cli.ShutdownContext()
	defer stop()

	console := bot.NewConsole(os.Stdin, os.Stdout)
	if err := bot.Run(ctx, console, router); err != nil {
		logger.Error("Session failed", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Session ended")
}
