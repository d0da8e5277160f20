package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hallatus/roundbooker/pkg/core/allocation"
	"github.com/hallatus/roundbooker/pkg/core/engine"
	"github.com/hallatus/roundbooker/pkg/core/model"
	"github.com/hallatus/roundbooker/pkg/core/services"
	"github.com/hallatus/roundbooker/pkg/core/timegrid"
)

// AcceptSlotCmd creates the acceptSlot command
func AcceptSlotCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "acceptSlot <reservation_unit_id> <section_id> <option_id> <day 0-6> <begin HH:MM> <end HH:MM>",
		Short: "Confirm a time slot for a section's reservation unit option",
		Long:  "Validate a staff-drawn selection against the section's constraints and space conflicts, then confirm it as an allocated time slot. Day is 0=Monday..6=Sunday.",
		Args:  cobra.ExactArgs(6),
		RunE: func(cmd *cobra.Command, args []string) error {
			unitID, sectionID, optionID := args[0], args[1], args[2]

			dayNum, err := strconv.Atoi(args[3])
			if err != nil {
				return fmt.Errorf("day must be a number: %w", err)
			}
			day, err := timegrid.ParseWeekday(dayNum)
			if err != nil {
				return err
			}
			begin, err := timegrid.ParseTimeOfDay(args[4])
			if err != nil {
				return err
			}
			end, err := timegrid.ParseTimeOfDay(args[5])
			if err != nil {
				return err
			}

			app.Logger.Debug("acceptSlot command",
				zap.String("section_id", sectionID),
				zap.String("option_id", optionID))

			section, err := findSection(app, unitID, sectionID)
			if err != nil {
				return err
			}

			related, err := services.RelatedOverlay(app.Ctx, app.Database, app.Logger,
				app.Cfg.ApplicationRoundID, unitID)
			if err != nil {
				return err
			}

			result, err := app.Engine.AcceptSlot(app.Ctx, engine.AcceptSlotRequest{
				ApplicationRoundID: app.Cfg.ApplicationRoundID,
				ReservationUnitID:  unitID,
				Section:            section,
				OptionID:           optionID,
				Selection:          allocation.Selection{Day: day, Begin: begin, End: end},
				Related:            related,
			})
			if err != nil {
				if reason, ok := engine.ReasonOf(err); ok {
					fmt.Printf("\n✗ Rejected: %s\n", reason)
					fmt.Printf("  %s\n\n", err.Error())
					return nil
				}
				return err
			}

			fmt.Printf("\n✓ Slot allocated!\n\n")
			fmt.Printf("Slot ID: %s\n", result.Slot.ID)
			fmt.Printf("Time:    %s %s-%s\n", result.Slot.Day, result.Slot.Begin, result.Slot.End)
			for _, warning := range result.Warnings {
				fmt.Printf("⚠️  Warning: %s\n", warning)
			}
			fmt.Println()

			return nil
		},
	}
}

// findSection re-fetches the unit's sections and returns the requested one.
func findSection(app *AppContext, unitID, sectionID string) (*model.ApplicationSection, error) {
	sections, err := app.Database.FetchAllocations(app.Ctx, app.Cfg.ApplicationRoundID, unitID)
	if err != nil {
		return nil, err
	}
	for i := range sections {
		if sections[i].ID == sectionID {
			return &sections[i], nil
		}
	}
	return nil, fmt.Errorf("section %s not found for reservation unit %s", sectionID, unitID)
}
