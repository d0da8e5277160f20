package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hallatus/roundbooker/pkg/core/engine"
)

// RemoveAllocationCmd creates the removeAllocation command
func RemoveAllocationCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "removeAllocation <reservation_unit_id> <section_id> <option_id> <allocated_slot_id>",
		Short: "Delete one allocated time slot",
		Long:  "Remove a confirmed allocation. Always permitted regardless of lock state; this is how staff walks back a decision.",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			unitID, sectionID, optionID, slotID := args[0], args[1], args[2], args[3]

			app.Logger.Debug("removeAllocation command",
				zap.String("allocated_slot_id", slotID))

			_, err := app.Engine.RemoveAllocation(app.Ctx, engine.RemoveAllocationRequest{
				ApplicationRoundID: app.Cfg.ApplicationRoundID,
				ReservationUnitID:  unitID,
				SectionID:          sectionID,
				OptionID:           optionID,
				AllocatedSlotID:    slotID,
			})
			if err != nil {
				if reason, ok := engine.ReasonOf(err); ok {
					fmt.Printf("\n✗ Rejected: %s\n\n", reason)
					return nil
				}
				return err
			}

			fmt.Printf("\n✓ Allocation %s removed.\n\n", slotID)
			return nil
		},
	}
}
