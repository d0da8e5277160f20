package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hallatus/roundbooker/pkg/core/engine"
)

// RejectOptionCmd creates the rejectOption command
func RejectOptionCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rejectOption <reservation_unit_id> <section_id> <option_id>",
		Short: "Decline the remaining, unallocated capacity of an option",
		Long:  "Mark a reservation unit option rejected. Already confirmed slots are kept; only the remaining capacity is declined.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			unitID, sectionID, optionID := args[0], args[1], args[2]
			lock, _ := cmd.Flags().GetBool("lock")

			app.Logger.Debug("rejectOption command",
				zap.String("option_id", optionID),
				zap.Bool("lock", lock))

			section, err := findSection(app, unitID, sectionID)
			if err != nil {
				return err
			}

			_, err = app.Engine.RejectRest(app.Ctx, engine.RejectRestRequest{
				ApplicationRoundID: app.Cfg.ApplicationRoundID,
				ReservationUnitID:  unitID,
				Section:            section,
				OptionID:           optionID,
				Locked:             lock,
			})
			if err != nil {
				if reason, ok := engine.ReasonOf(err); ok {
					fmt.Printf("\n✗ Rejected: %s\n\n", reason)
					return nil
				}
				return err
			}

			fmt.Printf("\n✓ Option %s rejected.\n\n", optionID)
			return nil
		},
	}

	cmd.Flags().Bool("lock", false, "Also set the lock flag in the same mutation")

	return cmd
}
