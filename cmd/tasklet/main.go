package main

import (
	"flag"
	"fmt"
	"os"

	"tasklet/internal/config"
	"tasklet/internal/link"
	"tasklet/internal/logging"
	"tasklet/internal/notify"
	"tasklet/internal/storage"
	"tasklet/internal/task"
	"tasklet/internal/ui"
)

func main() {
	configPath := flag.String("config", config.ResolveConfigPath(), "path to config.toml")
	memory := flag.Bool("memory", false, "keep tasks in memory only")
	flag.Parse()

	cfg, err := config.LoadOrCreate(*configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, logFile, err := logging.Open(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		fmt.Printf("failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	var slot task.Slot
	if *memory {
		slot = storage.NewMemory()
		logger.Info("using in-memory storage")
	} else {
		db, err := storage.Open(cfg.DBPath)
		if err != nil {
			fmt.Printf("failed to open database: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()
		if at, ok, err := db.UpdatedAt(cfg.StorageKey); err == nil && ok {
			logger.Debug("opened task slot", "path", cfg.DBPath, "key", cfg.StorageKey, "saved_at", at)
		}
		slot = db
	}

	status := ui.NewStatusLine("")
	store := task.NewStore(slot, cfg.StorageKey,
		task.WithLogger(logger),
		task.WithNotifier(notify.Multi(status, notify.Log(logger))),
	)
	logger.Info("started", "tasks", store.Len(), "config", *configPath)

	if err := ui.Run(store, status, cfg, link.SystemOpener{}); err != nil {
		logger.Error("exiting", "err", err)
		fmt.Printf("error running program: %v\n", err)
		os.Exit(1)
	}
}
