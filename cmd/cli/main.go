package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/trunohq/truno-ledger/internal/infrastructure/config"
	"github.com/trunohq/truno-ledger/internal/infrastructure/logger"
	"github.com/trunohq/truno-ledger/internal/infrastructure/postgres"
)

var (
	baseURL string
	orgID   string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "truno-ledger-cli",
		Short: "Truno Ledger CLI tool",
		Long:  `A command line interface for operating the Truno Ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Truno Ledger API")
	rootCmd.PersistentFlags().StringVar(&orgID, "org", "", "Organization ID to operate on")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	reconcileCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Run a reconciliation pass over the organization",
		Run: func(cmd *cobra.Command, args []string) {
			runReconciliation()
		},
	}

	pendingCmd := &cobra.Command{
		Use:   "pending [sale|expense]",
		Short: "Show unsettled sales or expenses",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			showPending(args[0])
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate [up|down]",
		Short: "Apply or roll back database migrations",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runMigrations(args[0])
		},
	}

	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(pendingCmd)
	rootCmd.AddCommand(migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func requireOrg() {
	if orgID == "" {
		fmt.Println("--org is required")
		os.Exit(1)
	}
}

func apiRequest(method, path string) []byte {
	requireOrg()

	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(method, baseURL+path, nil)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("X-Organization-ID", orgID)

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	return body
}

func runReconciliation() {
	body := apiRequest(http.MethodPost, "/api/v1/reconciliation")

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if clean, ok := result["clean"].(bool); ok && clean {
		fmt.Println("Reconciliation PASSED: no drift found")
	} else {
		fmt.Println("Reconciliation found DRIFT")
	}

	fmt.Printf("Accounts checked: %v\n", result["accounts_checked"])
	fmt.Printf("Records checked:  %v\n", result["records_checked"])

	pretty, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(pretty))
}

func showPending(kind string) {
	body := apiRequest(http.MethodGet, "/api/v1/records/"+kind+"/pending")

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Pending %ss: %v\n", kind, result["count"])
	fmt.Printf("Total outstanding: %v\n", result["total_outstanding"])

	pretty, _ := json.MarshalIndent(result["items"], "", "  ")
	fmt.Println(string(pretty))
}

func runMigrations(direction string) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: "console"})

	switch direction {
	case "up":
		err = postgres.RunMigrations(log, cfg.DatabaseURL, cfg.MigrationsPath)
	case "down":
		err = postgres.RunMigrationsDown(log, cfg.DatabaseURL, cfg.MigrationsPath)
	default:
		fmt.Println("direction must be up or down")
		os.Exit(1)
	}

	if err != nil {
		fmt.Printf("Migration failed: %v\n", err)
		os.Exit(1)
	}
}
