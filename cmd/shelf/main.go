// Command shelf obsługuje bibliotekę z linii poleceń.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"book-tracker/internal/app"
	"book-tracker/internal/config"
	"book-tracker/internal/library"
	"book-tracker/internal/logging"
	"book-tracker/internal/models"
)

// accountCreator zakłada konta z hasłem
type accountCreator interface {
	CreateAccount(ctx context.Context, email, password, displayName string) (*models.User, error)
}

var (
	// Ustawiane w PersistentPreRunE albo w testach
	lib      *library.Library
	accounts accountCreator
	logger   *zap.Logger
	closer   func() error

	envFile string
)

var rootCmd = &cobra.Command{
	Use:           "shelf",
	Short:         "Prywatna biblioteka: lista książek, czytanie, pożyczki, zapowiedzi",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if lib != nil {
			return nil
		}
		return setup(cmd.Context())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if closer != nil {
			return closer()
		}
		return nil
	},
}

func setup(ctx context.Context) error {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}

	cfg, err := config.Load(files...)
	if err != nil {
		return err
	}

	logger, err = logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("błąd inicjalizacji: %w", err)
	}

	lib = a.Library
	accounts = a.Firebase
	closer = a.Close
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "plik .env (domyślnie ./.env)")

	rootCmd.AddCommand(
		homeCmd,
		listCmd,
		showCmd,
		searchCmd,
		addCmd,
		readCmd,
		startCmd,
		tbrCmd,
		statusCmd,
		editCmd,
		loanCmd,
		rateCmd,
		deleteCmd,
		upcomingCmd,
		accountCmd,
	)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Błąd:", err)
		os.Exit(1)
	}
}
