package behave

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/programme-lv/labgrader/internal/grading"
	"github.com/programme-lv/labgrader/internal/suite"
	"github.com/programme-lv/labgrader/internal/summary"
)

// SpecExpect describes the expected summary of a graded submission. Unset
// fields are not checked.
type SpecExpect struct {
	Passed *int   `toml:"passed"`
	Total  *int   `toml:"total"`
	Status string `toml:"status"`
	// Failed expects the submission to be rejected before judging.
	Failed bool `toml:"failed"`
}

// specScenario maps to [[scenarios]] entries. The submission is either a
// file relative to the behaviour file or inline code with an extension.
type specScenario struct {
	Description string     `toml:"description"`
	Assignment  string     `toml:"assignment"`
	Submission  string     `toml:"submission"`
	Code        string     `toml:"code"`
	Ext         string     `toml:"ext"`
	Expect      SpecExpect `toml:"expect"`
}

type specRoot struct {
	Scenarios []specScenario `toml:"scenarios"`
}

// Case is a runnable scenario converted from TOML
type Case struct {
	Name       string
	Assignment string
	// Submission is an absolute path, or empty when Code is set.
	Submission string
	Code       string
	Ext        string
	Expect     SpecExpect
}

// Parse reads a behaviour TOML file and converts it to runnable cases
func Parse(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read behaviour file: %w", err)
	}
	var root specRoot
	if err := toml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	base, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, err
	}

	cases := make([]Case, 0, len(root.Scenarios))
	for i, sc := range root.Scenarios {
		name := sc.Description
		if name == "" {
			name = fmt.Sprintf("scenario %d", i+1)
		}
		if sc.Assignment == "" {
			return nil, fmt.Errorf("%s: assignment is missing", name)
		}
		if (sc.Submission == "") == (sc.Code == "") {
			return nil, fmt.Errorf("%s: exactly one of submission and code is required", name)
		}
		if sc.Code != "" && sc.Ext == "" {
			return nil, fmt.Errorf("%s: inline code needs an ext", name)
		}
		if sc.Expect.Status != "" {
			if _, ok := suite.ParseAdditionalStatus(sc.Expect.Status); !ok {
				return nil, fmt.Errorf("%s: unknown status %q", name, sc.Expect.Status)
			}
		}

		c := Case{
			Name:       name,
			Assignment: sc.Assignment,
			Code:       sc.Code,
			Ext:        sc.Ext,
			Expect:     sc.Expect,
		}
		if sc.Submission != "" {
			c.Submission = sc.Submission
			if !filepath.IsAbs(c.Submission) {
				c.Submission = filepath.Join(base, c.Submission)
			}
		}
		cases = append(cases, c)
	}
	return cases, nil
}

// Result of checking one case. Problems is empty when the case behaved as
// expected.
type Result struct {
	Case     Case
	Summary  summary.Summary
	Err      error
	Problems []string
}

func (r Result) OK() bool { return len(r.Problems) == 0 }

// Check grades every case the way a student's submission is graded.
func Check(ctx context.Context, registry *suite.Registry, cases []Case) ([]Result, error) {
	tmp, err := os.MkdirTemp("", "behave-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	results := make([]Result, 0, len(cases))
	for i, c := range cases {
		res := Result{Case: c}

		_, s, err := registry.ForAssignment(c.Assignment)
		if err != nil {
			res.Err = err
			res.Problems = append(res.Problems, err.Error())
			results = append(results, res)
			continue
		}

		file := c.Submission
		if file == "" {
			file = filepath.Join(tmp, fmt.Sprintf("case%d%s", i+1, c.Ext))
			if err := os.WriteFile(file, []byte(c.Code), 0644); err != nil {
				return nil, fmt.Errorf("failed to write inline code: %w", err)
			}
		}

		tests, err := grading.GradeFile(ctx, s, file)
		res.Err = err
		res.Summary = summary.Summarize(tests)
		res.Problems = compare(c.Expect, res.Summary, err)
		results = append(results, res)
	}
	return results, nil
}

func compare(want SpecExpect, got summary.Summary, err error) []string {
	var problems []string
	failed := err != nil
	if want.Failed != failed {
		if failed {
			problems = append(problems, fmt.Sprintf("unexpected failure: %v", err))
		} else {
			problems = append(problems, "expected the submission to fail")
		}
	}
	if want.Passed != nil && *want.Passed != got.Passed {
		problems = append(problems, fmt.Sprintf("passed: want %d, got %d", *want.Passed, got.Passed))
	}
	if want.Total != nil && *want.Total != got.Total {
		problems = append(problems, fmt.Sprintf("total: want %d, got %d", *want.Total, got.Total))
	}
	if want.Status != "" {
		status, _ := suite.ParseAdditionalStatus(want.Status)
		if status != got.Status {
			problems = append(problems, fmt.Sprintf("status: want %s, got %s", status, got.Status))
		}
	}
	return problems
}
