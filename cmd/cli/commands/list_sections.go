package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hallatus/roundbooker/pkg/core/allocation"
	"github.com/hallatus/roundbooker/pkg/core/model"
	"github.com/hallatus/roundbooker/pkg/core/services"
)

var bucketLabels = map[allocation.Bucket]string{
	allocation.BucketUnallocated:        "Unallocated",
	allocation.BucketPartiallyAllocated: "Partially allocated",
	allocation.BucketAllocated:          "Allocated",
	allocation.BucketDeclined:           "Declined",
}

// ListSectionsCmd creates the listSections command
func ListSectionsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listSections <reservation_unit_id>",
		Short: "List application sections for a reservation unit, grouped by allocation queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			unitID := args[0]

			app.Logger.Debug("listSections command", zap.String("reservation_unit_id", unitID))

			grouped, err := services.SectionQueues(app.Ctx, app.Database, app.Logger,
				app.Cfg.ApplicationRoundID, unitID)
			if err != nil {
				return err
			}

			for _, bucket := range allocation.Buckets {
				sections := grouped[bucket]
				fmt.Printf("\n%s (%d):\n", bucketLabels[bucket], len(sections))
				for i := range sections {
					printSection(&sections[i], unitID)
				}
			}
			fmt.Println()

			return nil
		},
	}
}

func printSection(section *model.ApplicationSection, unitID string) {
	option := section.OptionForUnit(unitID)

	flags := ""
	if option != nil {
		if option.IsLocked {
			flags += " [locked]"
		}
		if option.IsRejected {
			flags += " [rejected]"
		}
	}

	fmt.Printf("  • %s (%s) %d/wk, %d-%d min%s\n",
		section.Name,
		section.ID,
		section.AppliedReservationsPerWeek,
		section.ReservationMinDuration/60,
		section.ReservationMaxDuration/60,
		flags)

	if option != nil {
		for _, slot := range option.AllocatedSlots {
			fmt.Printf("      %s %s-%s (%s)\n", slot.Day, slot.Begin, slot.End, slot.ID)
		}
	}

	for _, r := range allocation.RangesByPriority(section.SuitableTimeRanges, model.PriorityPrimary) {
		fmt.Printf("      requested: %s (primary)\n", allocation.FormatRange(r))
	}
	for _, r := range allocation.RangesByPriority(section.SuitableTimeRanges, model.PrioritySecondary) {
		fmt.Printf("      requested: %s (secondary)\n", allocation.FormatRange(r))
	}
}
