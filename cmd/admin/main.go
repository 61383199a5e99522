package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/config"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/database"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/logger"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: admin createsuperuser -username NAME -password PASSWORD\n")
}

func main() {
	if len(os.Args) < 2 || os.Args[1] != "createsuperuser" {
		usage()
		os.Exit(2)
	}

	fs := flag.NewFlagSet("createsuperuser", flag.ExitOnError)
	username := fs.String("username", "", "login name of the new superuser")
	password := fs.String("password", "", "password of the new superuser")
	fs.Usage = usage
	_ = fs.Parse(os.Args[2:])

	if *username == "" || *password == "" {
		usage()
		os.Exit(2)
	}

	if err := run(*username, *password); err != nil {
		fmt.Fprintf(os.Stderr, "createsuperuser: %v\n", err)
		os.Exit(1)
	}
}

func run(username, password string) error {
	cfg := config.LoadConfig()
	appLogger := logger.New(cfg)

	if err := database.ConnectDatabase(cfg, appLogger); err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.CloseDatabase()

	userService := service.NewUserService(repository.NewUserRepository(database.GetDatabase()), appLogger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user, err := userService.CreateSuperuser(ctx, username, password)
	if err != nil {
		appLogger.Error("❌ [Admin] Failed to create superuser", "error", err)
		return err
	}

	fmt.Printf("Superuser %q created (uuid %s)\n", user.Username, user.UUID)
	return nil
}
