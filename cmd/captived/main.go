package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"captive/internal/config"
	"captive/internal/daemon"
	"captive/internal/ipc"
	"captive/internal/logging"
	"captive/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	st, err := store.Open(cfg)
	if err != nil {
		logger.Error("open caption store", logging.Error(err))
		return
	}
	defer st.Close()

	d, err := daemon.New(cfg, st, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		return
	}
	defer d.Close()

	ipcServer, err := ipc.NewServer(ctx, cfg.SocketPath(), d, logger)
	if err != nil {
		logger.Error("start IPC server", logging.Error(err))
		return
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	if err := d.Start(ctx); err != nil {
		logger.Warn("daemon start", logging.Error(err))
	}

	<-ctx.Done()
	logger.Info("captived shutting down")
}
