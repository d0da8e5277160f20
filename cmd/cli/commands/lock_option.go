package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hallatus/roundbooker/pkg/core/engine"
)

// LockOptionCmd creates the lockOption command
func LockOptionCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lockOption <reservation_unit_id> <section_id> <option_id>",
		Short: "Freeze or unfreeze further allocation for a reservation unit option",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			unitID, sectionID, optionID := args[0], args[1], args[2]
			unlock, _ := cmd.Flags().GetBool("unlock")

			app.Logger.Debug("lockOption command",
				zap.String("option_id", optionID),
				zap.Bool("unlock", unlock))

			section, err := findSection(app, unitID, sectionID)
			if err != nil {
				return err
			}

			_, err = app.Engine.SetLocked(app.Ctx, engine.SetLockedRequest{
				ApplicationRoundID: app.Cfg.ApplicationRoundID,
				ReservationUnitID:  unitID,
				Section:            section,
				OptionID:           optionID,
				Locked:             !unlock,
			})
			if err != nil {
				if reason, ok := engine.ReasonOf(err); ok {
					fmt.Printf("\n✗ Rejected: %s\n\n", reason)
					return nil
				}
				return err
			}

			if unlock {
				fmt.Printf("\n✓ Option %s unlocked.\n\n", optionID)
			} else {
				fmt.Printf("\n✓ Option %s locked.\n\n", optionID)
			}
			return nil
		},
	}

	cmd.Flags().Bool("unlock", false, "Release the lock instead of setting it")

	return cmd
}
