package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hallatus/roundbooker/pkg/core/allocation"
	"github.com/hallatus/roundbooker/pkg/core/services"
)

// SummaryCmd creates the summary command
func SummaryCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <reservation_unit_id>",
		Short: "Show per-queue section counts for a reservation unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			unitID := args[0]

			app.Logger.Debug("summary command", zap.String("reservation_unit_id", unitID))

			summary, err := services.SummarizeQueues(app.Ctx, app.Database, app.Logger,
				app.Cfg.ApplicationRoundID, unitID)
			if err != nil {
				return err
			}

			fmt.Printf("\nAllocation queues for unit %s:\n\n", unitID)
			for _, bucket := range allocation.Buckets {
				fmt.Printf("  %-22s %d\n", bucketLabels[bucket], summary[bucket])
			}
			fmt.Println()

			return nil
		},
	}
}
