package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"brand-catalog/internal/config"
	"brand-catalog/internal/database"
	"brand-catalog/internal/logger"
	"brand-catalog/migrations"

	"go.uber.org/zap"
)

const usage = `usage: migrate <command>

commands:
  up      apply all pending migrations
  down    roll back the most recent migration
  status  print applied and pending migrations
`

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	db, err := database.New(context.Background(), cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	switch command := flag.Arg(0); command {
	case "up":
		err = database.RunMigrations(db, migrations.FS, log)
	case "down":
		err = database.RollbackMigration(db, migrations.FS, log)
	case "status":
		err = database.GetMigrationStatus(db, migrations.FS)
	default:
		log.Error("Unknown migrate command", zap.String("command", command))
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal("Migration command failed", zap.Error(err))
	}
}
