package lab

import (
	"context"
	"fmt"
	"slices"

	"github.com/programme-lv/labgrader/internal/runner"
	"github.com/programme-lv/labgrader/internal/suite"
)

// Sequence reads n and prints the first n Fibonacci numbers, starting 1 1.
// Printing their sum afterwards earns the extra credit.
type Sequence struct {
	runner *runner.Runner
	counts []int
}

type sequenceAnswer struct {
	terms []float64
	sum   float64
}

func NewSequence(r *runner.Runner, cfg Config) *Sequence {
	rng := newRand(cfg, suite.Sequence)
	counts := make([]int, cfg.Cases)
	for i := range counts {
		counts[i] = rng.IntN(40) + 1
	}
	return &Sequence{runner: r, counts: counts}
}

func (s *Sequence) Run(ctx context.Context, submission string) (suite.RunOutput, error) {
	inputs := make([]string, len(s.counts))
	for i, n := range s.counts {
		inputs[i] = fmt.Sprintf("%d\n", n)
	}
	return runCases(ctx, s.runner, submission, inputs)
}

func (s *Sequence) Answer() suite.Answer {
	ans := make([]sequenceAnswer, len(s.counts))
	for i, n := range s.counts {
		terms := make([]float64, n)
		var a, b int64 = 1, 1
		var sum int64
		for j := range terms {
			terms[j] = float64(a)
			sum += a
			a, b = b, a+b
		}
		ans[i] = sequenceAnswer{terms: terms, sum: float64(sum)}
	}
	return ans
}

func (s *Sequence) Judge(out suite.RunOutput, ans suite.Answer) []suite.TestResult {
	runs, ok1 := out.(Runs)
	answers, ok2 := ans.([]sequenceAnswer)
	if !ok1 || !ok2 || len(runs) != len(answers) {
		return mismatched(out, ans)
	}

	results := make([]suite.TestResult, len(runs))
	for i, run := range runs {
		want := answers[i]
		got := numbers(run.Stdout)
		n := len(want.terms)

		main := check{expected: formatFloats(want.terms), actual: formatFloats(got)}
		if len(got) >= n {
			main.present = true
			main.actual = formatFloats(got[:n])
			main.ok = slices.Equal(got[:n], want.terms)
		}
		extra := check{expected: formatFloat(want.sum)}
		if len(got) > n {
			extra.present = true
			extra.actual = formatFloat(got[n])
			extra.ok = got[n] == want.sum
		}
		results[i] = caseResult(run, main, extra)
	}
	return results
}
