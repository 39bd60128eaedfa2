package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/medicity-console/internal/auth"
	"github.com/spec-kit/medicity-console/internal/authstub"
	"github.com/spec-kit/medicity-console/internal/config"
	"github.com/spec-kit/medicity-console/internal/observability"
)

func stubAuthCmd() *cobra.Command {
	var accountsFile string

	cmd := &cobra.Command{
		Use:   "stub-auth",
		Short: "Run a development stand-in for the backend login endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			return stubAuth(accountsFile)
		},
	}
	cmd.Flags().StringVar(&accountsFile, "accounts", "", "YAML accounts file (overrides STUB_ACCOUNTS_FILE)")
	return cmd
}

func stubAuth(accountsFile string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	if accountsFile == "" {
		accountsFile = cfg.Stub.AccountsFile
	}
	accounts := authstub.DefaultAccounts()
	if accountsFile != "" {
		if accounts, err = authstub.LoadAccounts(accountsFile); err != nil {
			return err
		}
	}

	tokens := auth.NewTokenManager(cfg.Stub.JWTSecret, cfg.Stub.TokenTTLMinutes)
	server, err := authstub.NewServer(accounts, tokens, cfg.Stub.BcryptCost, logger.Named("authstub"))
	if err != nil {
		return fmt.Errorf("build stub: %w", err)
	}

	app := server.App(cfg.Backend.LoginPath)
	go func() {
		if err := app.Listen(cfg.Stub.Addr()); err != nil {
			logger.Fatal("stub listen", zap.Error(err))
		}
	}()
	logger.Info("auth stub started",
		zap.String("addr", cfg.Stub.Addr()),
		zap.String("path", cfg.Backend.LoginPath),
		zap.Int("accounts", len(accounts)),
	)

	waitForShutdown(logger)

	return app.Shutdown()
}
