// Command bootstrap creates the first administrator account. The service
// only allows admins to create accounts, so a fresh deployment needs this
// command once before the API is usable.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/vkazarin/clinicdesk/internal/accounts"
	accountspostgres "github.com/vkazarin/clinicdesk/internal/accounts/postgres"
	"github.com/vkazarin/clinicdesk/internal/config"
	"github.com/vkazarin/clinicdesk/internal/domain"
	"github.com/vkazarin/clinicdesk/internal/pkg/postgres"
	"github.com/vkazarin/clinicdesk/migrations"
)

func main() {
	username := flag.String("username", "admin", "username for the administrator account")
	displayName := flag.String("display-name", "Administrator", "display name for the administrator account")
	password := flag.String("password", "", "password for the administrator account (or CLINICDESK_BOOTSTRAP_PASSWORD)")
	force := flag.Bool("force", false, "create the account even when an active admin already exists")
	flag.Parse()

	if err := run(*username, *displayName, *password, *force); err != nil {
		slog.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
}

func run(username, displayName, password string, force bool) error {
	if password == "" {
		password = os.Getenv("CLINICDESK_BOOTSTRAP_PASSWORD")
	}
	if password == "" {
		return fmt.Errorf("password is required, pass -password or set CLINICDESK_BOOTSTRAP_PASSWORD")
	}

	cfg, err := config.Load(config.PathFromEnv())
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if err := migrations.Up(cfg.Database.URL); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout)
	defer cancel()

	db, err := postgres.Connect(ctx, postgres.Config{
		URL:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnectAttempts: cfg.Database.ConnectAttempts,
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	repo := accountspostgres.NewRepository(db)

	if !force {
		admins, err := repo.CountActiveAdmins(ctx)
		if err != nil {
			return fmt.Errorf("count active admins: %w", err)
		}
		if admins > 0 {
			return fmt.Errorf("an active admin already exists, use -force to create another")
		}
	}

	service := accounts.NewService(repo)
	user, err := service.CreateUser(ctx, accounts.CreateUserInput{
		Username:    username,
		DisplayName: displayName,
		Password:    password,
		Role:        domain.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("create admin account: %w", err)
	}

	slog.Info("administrator account created", "id", user.ID, "username", user.Username)
	return nil
}
