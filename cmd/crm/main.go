package main

import (
	"fmt"
	"os"

	"github.com/boddenberg/crm-previdenciario-go/internal/config"
	"github.com/boddenberg/crm-previdenciario-go/internal/infra/observability"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	envFile   string
	logLevel  string
	storePath string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "crm",
	Short: "CRM previdenciário: clientes, processos, honorários e assistente de IA",
	Long: `crm manages clients, social-security cases, fees, expenses and document
templates for a law practice, with Gemini-backed drafting assistance.

Run "crm serve" to start the HTTP API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// --- Load .env file (for local development) ---
		if err := config.LoadDotEnv(envFile); err != nil {
			return fmt.Errorf("load %s: %w", envFile, err)
		}

		// --- Config ---
		cfg = config.Load()
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		if storePath != "" {
			cfg.StorePath = storePath
		}

		// --- Logger ---
		logger = observability.NewLogger(cfg.LogLevel)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "database path (overrides STORE_PATH)")

	rootCmd.AddCommand(serveCmd, urgentCmd, financialsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
