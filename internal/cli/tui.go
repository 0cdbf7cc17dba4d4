package cli

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/logsheet/internal/models"
	"github.com/julianstephens/logsheet/internal/tui"
)

type TuiCmd struct {
	Trip     string `help:"Trip JSON file." required:"" type:"existingfile"`
	Out      string `help:"Directory rendered days are written to." type:"path"`
	Template string `help:"Template image to draw on." type:"path"`
}

func (c *TuiCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	trip, err := models.LoadTrip(c.Trip)
	if err != nil {
		return err
	}
	renderer, err := ctx.Renderer()
	if err != nil {
		return err
	}

	m := tui.NewModel(tui.Options{
		Trip:     trip,
		Store:    ctx.Store,
		Renderer: renderer,
		Asset:    ctx.Template(c.Template),
		OutDir:   ctx.OutputDir(c.Out),
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
