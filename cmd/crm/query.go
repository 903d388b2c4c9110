package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/boddenberg/crm-previdenciario-go/internal/infra/observability"
	"github.com/boddenberg/crm-previdenciario-go/internal/infra/store"
	"github.com/boddenberg/crm-previdenciario-go/internal/service"

	"github.com/spf13/cobra"
)

var urgentCmd = &cobra.Command{
	Use:   "urgent",
	Short: "Print incomplete tasks due within the urgent window",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRepository(cmd, func(crm *service.CrmService) error {
			return printJSON(crm.GetUrgentTasks(crm.Now()))
		})
	},
}

var financialsCmd = &cobra.Command{
	Use:   "financials [case-id]",
	Short: "Print fee and expense totals for a case",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRepository(cmd, func(crm *service.CrmService) error {
			if _, ok := crm.GetCaseByID(args[0]); !ok {
				return fmt.Errorf("case %s not found", args[0])
			}
			return printJSON(crm.GetFinancialsByCaseID(args[0]))
		})
	},
}

// withRepository opens the configured store and runs fn against
// the loaded collections.
func withRepository(cmd *cobra.Command, fn func(*service.CrmService) error) error {
	kv, err := store.Open(cfg.StoreDriver, cfg.StorePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer kv.Close()

	crm, err := service.NewCrmService(cmd.Context(), kv, observability.NewMetrics(), logger, service.CrmConfig{
		UrgentWindow: cfg.UrgentWindow,
	})
	if err != nil {
		return fmt.Errorf("load repository: %w", err)
	}
	return fn(crm)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
