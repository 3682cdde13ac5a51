package report

import (
	"io"

	pretty_table "github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type Health int

const (
	Okay Health = iota
	Warn
	Failing
)

func (h Health) String() string {
	switch h {
	case Okay:
		return "ok"
	case Warn:
		return "warn"
	}
	return "error"
}

// Check is the state of one thing the grader depends on.
type Check struct {
	Unit    string
	Health  Health
	Message string
}

// RenderChecks writes checks as a table.
func RenderChecks(w io.Writer, checks []Check, opts Options) {
	t := pretty_table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(pretty_table.Row{"Unit", "Health", "Message"})
	for _, c := range checks {
		t.AppendRow(pretty_table.Row{c.Unit, c.Health.String(), c.Message})
	}

	if !opts.Color {
		t.SetStyle(pretty_table.StyleLight)
		t.Render()
		return
	}

	t.SetStyle(pretty_table.StyleColoredDark)
	healthColor := text.Transformer(func(s interface{}) string {
		switch s.(string) {
		case "ok":
			return text.FgHiGreen.Sprint(s)
		case "warn":
			return text.FgHiYellow.Sprint(s)
		}
		return text.FgHiRed.Sprint(s)
	})
	t.SetColumnConfigs([]pretty_table.ColumnConfig{
		{Name: "Health", Transformer: healthColor, Align: text.AlignCenter},
	})
	t.Render()
}
