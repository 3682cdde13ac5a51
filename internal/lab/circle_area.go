package lab

import (
	"context"
	"fmt"
	"math"

	"github.com/programme-lv/labgrader/internal/runner"
	"github.com/programme-lv/labgrader/internal/suite"
)

// CircleArea reads a radius and prints the circle's area. Printing the
// circumference as a second number earns the extra credit.
type CircleArea struct {
	runner *runner.Runner
	radii  []float64
}

type circleAnswer struct {
	area          float64
	circumference float64
}

func NewCircleArea(r *runner.Runner, cfg Config) *CircleArea {
	rng := newRand(cfg, suite.CircleArea)
	radii := make([]float64, cfg.Cases)
	for i := range radii {
		// two decimal places so the printed input is exact
		radii[i] = float64(rng.IntN(10000)+50) / 100
	}
	return &CircleArea{runner: r, radii: radii}
}

func (s *CircleArea) Run(ctx context.Context, submission string) (suite.RunOutput, error) {
	inputs := make([]string, len(s.radii))
	for i, r := range s.radii {
		inputs[i] = fmt.Sprintf("%.2f\n", r)
	}
	return runCases(ctx, s.runner, submission, inputs)
}

func (s *CircleArea) Answer() suite.Answer {
	ans := make([]circleAnswer, len(s.radii))
	for i, r := range s.radii {
		ans[i] = circleAnswer{area: math.Pi * r * r, circumference: 2 * math.Pi * r}
	}
	return ans
}

func (s *CircleArea) Judge(out suite.RunOutput, ans suite.Answer) []suite.TestResult {
	runs, ok1 := out.(Runs)
	answers, ok2 := ans.([]circleAnswer)
	if !ok1 || !ok2 || len(runs) != len(answers) {
		return mismatched(out, ans)
	}

	results := make([]suite.TestResult, len(runs))
	for i, run := range runs {
		want := answers[i]
		got := numbers(run.Stdout)

		main := check{expected: fmt.Sprintf("%.4f", want.area), actual: "(no number)"}
		if len(got) > 0 {
			main.present = true
			main.actual = formatFloat(got[0])
			main.ok = closeEnough(got[0], want.area)
		}
		extra := check{expected: fmt.Sprintf("%.4f", want.circumference)}
		if len(got) > 1 {
			extra.present = true
			extra.actual = formatFloat(got[1])
			extra.ok = closeEnough(got[1], want.circumference)
		}
		results[i] = caseResult(run, main, extra)
	}
	return results
}

// closeEnough accepts answers printed with two decimals.
func closeEnough(got, want float64) bool {
	diff := math.Abs(got - want)
	return diff <= 1e-2 || diff <= 1e-4*math.Abs(want)
}
