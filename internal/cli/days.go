package cli

import (
	"fmt"

	"github.com/julianstephens/logsheet/internal/models"
	"github.com/julianstephens/logsheet/internal/timeline"
	"github.com/julianstephens/logsheet/internal/tui/components/segments"
)

type DaysCmd struct {
	Trip string `help:"Trip JSON file." required:"" type:"existingfile"`
	Day  int    `help:"Show only this day (1-based); 0 shows every day." default:"0"`
}

func (c *DaysCmd) Run(ctx *Context) error {
	trip, err := models.LoadTrip(c.Trip)
	if err != nil {
		return err
	}

	sum := timeline.Summarize(trip.Logs)
	if c.Day < 0 || c.Day > sum.Days {
		return fmt.Errorf("day %d out of range, trip spans %d day(s)", c.Day, sum.Days)
	}

	fmt.Fprintf(ctx.out(), "%d day(s): %.2fh driving, %.2fh on duty, %.2fh rest\n\n",
		sum.Days, sum.DriveHours, sum.OnDutyHours, sum.RestHours)

	for d := 0; d < sum.Days; d++ {
		if c.Day > 0 && d != c.Day-1 {
			continue
		}
		fmt.Fprintln(ctx.out(), segments.Content(trip.Logs, d))

		totals := sum.PerDay[d]
		for _, st := range models.DutyStatuses {
			fmt.Fprintf(ctx.out(), "  %-10s %5.2fh\n", st.Label(), totals[st])
		}
		fmt.Fprintln(ctx.out())
	}
	return nil
}
