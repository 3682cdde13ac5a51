// Package lab holds the test suites of the course's lab assignments.
package lab

import (
	"context"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"

	"github.com/programme-lv/labgrader/api"
	"github.com/programme-lv/labgrader/internal/runner"
	"github.com/programme-lv/labgrader/internal/suite"
)

const DefaultCases = 5

// Config controls case generation. The same seed always yields the same
// cases, so repeated grading runs agree.
type Config struct {
	Seed  uint64
	Cases int
}

// NewRegistry registers one suite per assignment kind.
func NewRegistry(r *runner.Runner, cfg Config) *suite.Registry {
	if cfg.Cases <= 0 {
		cfg.Cases = DefaultCases
	}
	return suite.NewRegistry(map[suite.Kind]suite.Suite{
		suite.CircleArea:  NewCircleArea(r, cfg),
		suite.Population:  NewPopulation(r, cfg),
		suite.Sequence:    NewSequence(r, cfg),
		suite.ThreeNumber: NewThreeNumber(r, cfg),
	})
}

func newRand(cfg Config, kind suite.Kind) *rand.Rand {
	return rand.New(rand.NewPCG(cfg.Seed, uint64(kind)+1))
}

// Runs holds one RunData per case, in case order.
type Runs []*runner.RunData

// runCases builds the submission once and feeds it every input.
func runCases(ctx context.Context, r *runner.Runner, submission string, inputs []string) (Runs, error) {
	prog, err := r.Prepare(ctx, submission)
	if err != nil {
		return nil, err
	}
	defer prog.Close()

	runs := make(Runs, 0, len(inputs))
	for _, in := range inputs {
		data, err := prog.Exec(ctx, []byte(in))
		if err != nil {
			return nil, err
		}
		runs = append(runs, data)
	}
	return runs, nil
}

var numberRe = regexp.MustCompile(`[-+]?\d+(?:\.\d+)?(?:[eE][-+]?\d+)?`)

// numbers extracts the numbers printed in out. Digits glued to a letter,
// as in a label like "F2", are part of a word and are skipped.
func numbers(out string) []float64 {
	var res []float64
	for _, loc := range numberRe.FindAllStringIndex(out, -1) {
		if loc[0] > 0 && isWordByte(out[loc[0]-1]) {
			continue
		}
		if loc[1] < len(out) && isWordByte(out[loc[1]]) {
			continue
		}
		v, err := strconv.ParseFloat(out[loc[0]:loc[1]], 64)
		if err != nil {
			continue
		}
		res = append(res, v)
	}
	return res
}

func isWordByte(b byte) bool {
	return b == '_' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

// check is the comparison of one expected value against the output.
type check struct {
	expected string
	actual   string
	present  bool
	ok       bool
}

// caseResult turns the main and extra-credit checks of one case into a TestResult.
func caseResult(run *runner.RunData, main, extra check) suite.TestResult {
	res := suite.TestResult{Passed: main.ok && !run.Failed()}

	switch {
	case !extra.present:
		res.AdditionalStatus = suite.StatusNone
	case extra.ok:
		res.AdditionalStatus = suite.StatusFull
	default:
		res.AdditionalStatus = suite.StatusPartial
		res.AdditionalInfos = map[string]string{
			"expected": extra.expected,
			"actual":   extra.actual,
		}
	}

	if !res.Passed {
		res.Infos = map[string]string{
			"input":    api.TrimStr(run.Stdin),
			"expected": main.expected,
			"actual":   main.actual,
		}
		if run.Stderr != "" {
			res.Infos["stderr"] = api.TrimStr(run.Stderr)
		}
		if run.TimedOut {
			res.Infos["timeout"] = fmt.Sprintf("killed after %d ms", run.WallMillis)
		} else if run.ExitCode != 0 {
			res.Infos["exit_code"] = strconv.Itoa(run.ExitCode)
		}
	}
	return res
}

// mismatched is returned by Judge when handed values it did not produce.
func mismatched(out suite.RunOutput, ans suite.Answer) []suite.TestResult {
	return []suite.TestResult{{
		Passed: false,
		Infos: map[string]string{
			"error": fmt.Sprintf("cannot judge %T against %T", out, ans),
		},
	}}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFloats(vs []float64) string {
	s := ""
	for i, v := range vs {
		if i > 0 {
			s += " "
		}
		s += formatFloat(v)
	}
	return s
}
