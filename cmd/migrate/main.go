package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/lib/pq"

	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/config"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/database"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/logger"
)

var allowedCommands = map[string]bool{
	"up":        true,
	"up-by-one": true,
	"down":      true,
	"redo":      true,
	"reset":     true,
	"status":    true,
	"version":   true,
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: migrate [up|up-by-one|down|redo|reset|status|version]\n")
	}
	flag.Parse()

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}
	if !allowedCommands[command] {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(command); err != nil {
		fmt.Fprintf(os.Stderr, "migrate %s: %v\n", command, err)
		os.Exit(1)
	}
}

func run(command string) error {
	cfg := config.LoadConfig()
	appLogger := logger.New(cfg)

	db, err := sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("database is not reachable: %w", err)
	}

	appLogger.Info("🔄 [Migrate] Running migrations", "command", command)
	if err := database.RunMigrations(db, command); err != nil {
		return err
	}
	appLogger.Info("✅ [Migrate] Done", "command", command)
	return nil
}
