package lab

import (
	"context"
	"fmt"
	"slices"

	"github.com/programme-lv/labgrader/internal/runner"
	"github.com/programme-lv/labgrader/internal/suite"
)

// ThreeNumber reads three integers and prints them in ascending order.
// Printing the difference between the largest and the smallest afterwards
// earns the extra credit.
type ThreeNumber struct {
	runner  *runner.Runner
	triples [][3]int
}

type threeNumberAnswer struct {
	sorted []float64
	spread float64
}

func NewThreeNumber(r *runner.Runner, cfg Config) *ThreeNumber {
	rng := newRand(cfg, suite.ThreeNumber)
	triples := make([][3]int, cfg.Cases)
	for i := range triples {
		for j := range triples[i] {
			triples[i][j] = rng.IntN(2001) - 1000
		}
	}
	return &ThreeNumber{runner: r, triples: triples}
}

func (s *ThreeNumber) Run(ctx context.Context, submission string) (suite.RunOutput, error) {
	inputs := make([]string, len(s.triples))
	for i, t := range s.triples {
		inputs[i] = fmt.Sprintf("%d %d %d\n", t[0], t[1], t[2])
	}
	return runCases(ctx, s.runner, submission, inputs)
}

func (s *ThreeNumber) Answer() suite.Answer {
	ans := make([]threeNumberAnswer, len(s.triples))
	for i, t := range s.triples {
		sorted := []float64{float64(t[0]), float64(t[1]), float64(t[2])}
		slices.Sort(sorted)
		ans[i] = threeNumberAnswer{sorted: sorted, spread: sorted[2] - sorted[0]}
	}
	return ans
}

func (s *ThreeNumber) Judge(out suite.RunOutput, ans suite.Answer) []suite.TestResult {
	runs, ok1 := out.(Runs)
	answers, ok2 := ans.([]threeNumberAnswer)
	if !ok1 || !ok2 || len(runs) != len(answers) {
		return mismatched(out, ans)
	}

	results := make([]suite.TestResult, len(runs))
	for i, run := range runs {
		want := answers[i]
		got := numbers(run.Stdout)

		main := check{expected: formatFloats(want.sorted), actual: formatFloats(got)}
		if len(got) >= 3 {
			main.present = true
			main.actual = formatFloats(got[:3])
			main.ok = slices.Equal(got[:3], want.sorted)
		}
		extra := check{expected: formatFloat(want.spread)}
		if len(got) > 3 {
			extra.present = true
			extra.actual = formatFloat(got[3])
			extra.ok = got[3] == want.spread
		}
		results[i] = caseResult(run, main, extra)
	}
	return results
}
