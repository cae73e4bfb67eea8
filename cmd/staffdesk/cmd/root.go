package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	backendURL string
	dataDir    string
)

var rootCmd = &cobra.Command{
	Use:   "staffdesk",
	Short: "staffdesk is the MealPoint staff-operations dashboard",
	Long: `A local dashboard for cafeteria staff: order fulfilment, manual
point-of-sale ordering, inventory, wallet recharges, and reports, all backed
by the MealPoint REST API. One staff session per running process.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend-url",
		envOr("STAFFDESK_BACKEND_URL", "https://localhost:5500/api"),
		"Base URL of the MealPoint staff API")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir",
		envOr("STAFFDESK_DATA_DIR", "./data"),
		"Directory for the persisted credential store")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
