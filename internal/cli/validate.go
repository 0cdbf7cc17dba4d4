package cli

import (
	"fmt"

	"github.com/julianstephens/logsheet/internal/models"
	"github.com/julianstephens/logsheet/internal/validation"
)

type ValidateCmd struct {
	Trip string `help:"Trip JSON file." required:"" type:"existingfile"`
	Gaps bool   `help:"Also report uncovered stretches the renderer fills as off duty."`
}

func (c *ValidateCmd) Run(ctx *Context) error {
	trip, err := models.LoadTrip(c.Trip)
	if err != nil {
		return err
	}

	v := validation.New()
	v.ReportGaps = c.Gaps
	result := v.ValidateIntervals(trip.Logs)

	fmt.Fprint(ctx.out(), result.FormatReport())
	if result.HasConflicts() {
		return fmt.Errorf("%d conflict(s) found in %s", len(result.Conflicts), c.Trip)
	}
	return nil
}
