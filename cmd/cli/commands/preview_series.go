package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hallatus/roundbooker/pkg/core/series"
)

// PreviewSeriesCmd creates the previewSeries command
func PreviewSeriesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "previewSeries <reservation_unit_id> <section_id> <allocated_slot_id>",
		Short: "List the concrete reservation dates a confirmed slot produces within the round",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			unitID, sectionID, slotID := args[0], args[1], args[2]

			app.Logger.Debug("previewSeries command", zap.String("allocated_slot_id", slotID))

			section, err := findSection(app, unitID, sectionID)
			if err != nil {
				return err
			}

			for i := range section.ReservationUnitOptions {
				option := &section.ReservationUnitOptions[i]
				for _, slot := range option.AllocatedSlots {
					if slot.ID != slotID {
						continue
					}

					occurrences, err := series.Expand(slot, app.Round.PeriodBegin, app.Round.PeriodEnd)
					if err != nil {
						return err
					}

					fmt.Printf("\n%s %s-%s on %s produces %d reservations:\n\n",
						slot.Day, slot.Begin, slot.End, option.ReservationUnit.Name, len(occurrences))
					for _, occ := range occurrences {
						fmt.Printf("  %s  %s-%s\n",
							occ.Begin.Format("2006-01-02"),
							occ.Begin.Format("15:04"),
							occ.End.Format("15:04"))
					}
					fmt.Println()

					return nil
				}
			}

			return fmt.Errorf("allocated slot %s not found on section %s", slotID, sectionID)
		},
	}
}
