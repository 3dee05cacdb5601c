package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/geocoder89/fittrack/internal/config"
	"github.com/geocoder89/fittrack/internal/db"
	"github.com/geocoder89/fittrack/internal/observability"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the exit code: 0 on success, 1 on failure, 2 on bad usage.
func run(args []string) int {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: migrate [up|status]\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cmd := fs.Arg(0)
	if cmd == "" {
		cmd = "up"
	}
	if cmd != "up" && cmd != "status" {
		fs.Usage()
		return 2
	}

	cfg := config.Load()
	log := observability.NewLogger(cfg.Env)

	if cfg.Storage != config.StoragePostgres {
		log.Error("migrations only apply to postgres storage", "storage", cfg.Storage)
		return 1
	}

	ctx := context.Background()

	pool, err := db.NewPool(ctx, cfg.DBURL, 1)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return 1
	}
	defer pool.Close()

	if cmd == "status" {
		err = db.MigrationStatus(ctx, pool)
	} else {
		err = db.Migrate(ctx, pool)
	}

	if err != nil {
		log.Error("migrate failed", "cmd", cmd, "err", err)
		return 1
	}

	log.Info("migrate done", "cmd", cmd)
	return 0
}
