package main

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/loadrig/loadctrl/svc/config"
)

var teardownTenant string

var teardownCmd = &cobra.Command{
	Use:   "teardown",
	Short: "Scale the tenant's worker set down without running a test",
	Run: func(cmd *cobra.Command, args []string) {
		teardown()
	},
}

func init() {
	teardownCmd.Flags().StringVar(&teardownTenant, "tenant", "", "namespace that scopes the worker set")

	rootCmd.AddCommand(teardownCmd)
}

func teardown() {
	if teardownTenant == "" {
		exit(InvalidInput, "invalid input: a tenant is required, but missing")
	}

	cfg := config.Load()

	adapter, err := connect(cfg)
	if err != nil {
		exit(RemoteOperationError, "could not connect to cluster: %v", err)
	}

	if err := adapter.ScaleWorkers(context.Background(), teardownTenant, cfg.WorkerDeployment, 0); err != nil {
		exit(RemoteOperationError, "teardown failed: %v", err)
	}

	color.Green("worker deployment %v in %v scaled to zero", cfg.WorkerDeployment, teardownTenant)
}
