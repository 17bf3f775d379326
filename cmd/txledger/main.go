package main

import (
	"github.com/corebank/txledger/internal/application/transactionservice"
	"github.com/corebank/txledger/internal/repositories/ledgerrepo"
	"github.com/corebank/txledger/internal/server"
	"github.com/corebank/txledger/internal/server/websocket"
	"github.com/corebank/txledger/pkg/config"
	"github.com/corebank/txledger/pkg/logger"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log = logger.NewWithConfig(cfg.Logging)

	ledgerRepo := ledgerrepo.New(cfg.Ledger.BalanceShards, log)
	transactionService := transactionservice.New(ledgerRepo, log)
	wsHub := websocket.NewWsHub(log)

	srv := server.New(cfg, transactionService, log, wsHub)
	srv.Start()
}
