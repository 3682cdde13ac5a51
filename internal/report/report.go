package report

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	pretty_table "github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/programme-lv/labgrader/internal/grading"
	"github.com/programme-lv/labgrader/internal/plagiarism"
	"github.com/programme-lv/labgrader/internal/suite"
	"github.com/programme-lv/labgrader/internal/summary"
)

// Row is what a listing shows for one student.
type Row struct {
	Name      string
	LoginID   string
	Submitted bool
	Collision bool
	summary.Summary
}

// Rows builds one row per graded student ordered by login id.
func Rows(o *grading.Outcome) []Row {
	students := o.Students()
	rows := make([]Row, 0, len(students))
	for _, s := range students {
		rows = append(rows, Row{
			Name:      s.Name,
			LoginID:   s.LoginID,
			Submitted: o.Submitted(s),
			Collision: o.Collisions.Involves(s),
			Summary:   summary.Summarize(o.Results[s]),
		})
	}
	return rows
}

type Options struct {
	Color bool
}

// Render writes rows as a table.
func Render(w io.Writer, rows []Row, opts Options) {
	t := pretty_table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(pretty_table.Row{
		"Name", "Login", "Submitted", "Collision", "Passed", "Status", "Infos", "Additional",
	})
	for _, r := range rows {
		t.AppendRow(pretty_table.Row{
			r.Name,
			r.LoginID,
			yesNo(r.Submitted),
			yesNo(r.Collision),
			fmt.Sprintf("%d/%d", r.Passed, r.Total),
			r.Status.String(),
			r.Infos,
			r.AdditionalInfos,
		})
	}

	if !opts.Color {
		t.SetStyle(pretty_table.StyleLight)
		t.Render()
		return
	}

	t.SetStyle(pretty_table.StyleColoredDark)
	statusColor := text.Transformer(func(s interface{}) string {
		switch s.(string) {
		case "full":
			return text.FgHiGreen.Sprint(s)
		case "partial":
			return text.FgHiYellow.Sprint(s)
		}
		return text.FgHiRed.Sprint(s)
	})
	collisionColor := text.Transformer(func(s interface{}) string {
		if s.(string) == "yes" {
			return text.FgHiRed.Sprint(s)
		}
		return fmt.Sprint(s)
	})
	t.SetColumnConfigs([]pretty_table.ColumnConfig{
		{Name: "Status", Transformer: statusColor, Align: text.AlignCenter},
		{Name: "Collision", Transformer: collisionColor, Align: text.AlignCenter},
		{Name: "Submitted", Align: text.AlignCenter},
	})
	t.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Detail is one key of one test's infos or additional infos.
type Detail struct {
	Test       int
	Passed     bool
	Additional bool
	Key        string
	Value      string
}

// Details flattens a student's results: for each test its infos, then its
// additional infos, keys sorted. Tests are numbered from 1.
func Details(results []suite.TestResult) []Detail {
	var details []Detail
	for i, r := range results {
		for _, k := range slices.Sorted(maps.Keys(r.Infos)) {
			details = append(details, Detail{Test: i + 1, Passed: r.Passed, Key: k, Value: r.Infos[k]})
		}
		for _, k := range slices.Sorted(maps.Keys(r.AdditionalInfos)) {
			details = append(details, Detail{
				Test: i + 1, Passed: r.Passed, Additional: true, Key: k, Value: r.AdditionalInfos[k],
			})
		}
	}
	return details
}

// RenderDetails prints one line per test followed by its details.
func RenderDetails(w io.Writer, results []suite.TestResult) {
	details := Details(results)
	for i, r := range results {
		verdict := "passed"
		if !r.Passed {
			verdict = "failed"
		}
		fmt.Fprintf(w, "test %d: %s, extra %s\n", i+1, verdict, r.AdditionalStatus.Resolved())
		for _, d := range details {
			if d.Test != i+1 {
				continue
			}
			label := d.Key
			if d.Additional {
				label = "extra " + d.Key
			}
			value := strings.ReplaceAll(strings.TrimRight(d.Value, "\n"), "\n", "\n    ")
			fmt.Fprintf(w, "  %s: %s\n", label, value)
		}
	}
}

// Collisions lists groups of students with identical submissions.
func Collisions(o *grading.Outcome) []plagiarism.Group {
	return o.Collisions.Groups()
}

func RenderCollisions(w io.Writer, groups []plagiarism.Group) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "no identical submissions")
		return
	}
	for _, g := range groups {
		logins := make([]string, 0, len(g.Students))
		for _, s := range g.Students {
			logins = append(logins, s.String())
		}
		fmt.Fprintf(w, "identical submissions [%s]: %s\n", g.Fingerprint.Short(), strings.Join(logins, ", "))
	}
}
