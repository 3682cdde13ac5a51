package lab

import (
	"context"
	"fmt"
	"math"

	"github.com/programme-lv/labgrader/internal/runner"
	"github.com/programme-lv/labgrader/internal/suite"
)

// Population reads an initial population, a yearly growth rate in percent
// and a number of years, and prints the population after those years. The
// extra credit is the number of whole years until the population doubles.
type Population struct {
	runner *runner.Runner
	cases  []populationCase
}

type populationCase struct {
	initial int
	rate    int
	years   int
}

type populationAnswer struct {
	final       float64
	doubleYears float64
}

func NewPopulation(r *runner.Runner, cfg Config) *Population {
	rng := newRand(cfg, suite.Population)
	cases := make([]populationCase, cfg.Cases)
	for i := range cases {
		cases[i] = populationCase{
			initial: rng.IntN(99000) + 1000,
			rate:    rng.IntN(15) + 1,
			years:   rng.IntN(30) + 1,
		}
	}
	return &Population{runner: r, cases: cases}
}

func (s *Population) Run(ctx context.Context, submission string) (suite.RunOutput, error) {
	inputs := make([]string, len(s.cases))
	for i, c := range s.cases {
		inputs[i] = fmt.Sprintf("%d %d %d\n", c.initial, c.rate, c.years)
	}
	return runCases(ctx, s.runner, submission, inputs)
}

func (s *Population) Answer() suite.Answer {
	ans := make([]populationAnswer, len(s.cases))
	for i, c := range s.cases {
		growth := 1 + float64(c.rate)/100
		ans[i] = populationAnswer{
			final:       math.Round(float64(c.initial) * math.Pow(growth, float64(c.years))),
			doubleYears: math.Ceil(math.Log(2) / math.Log(growth)),
		}
	}
	return ans
}

func (s *Population) Judge(out suite.RunOutput, ans suite.Answer) []suite.TestResult {
	runs, ok1 := out.(Runs)
	answers, ok2 := ans.([]populationAnswer)
	if !ok1 || !ok2 || len(runs) != len(answers) {
		return mismatched(out, ans)
	}

	results := make([]suite.TestResult, len(runs))
	for i, run := range runs {
		want := answers[i]
		got := numbers(run.Stdout)

		main := check{expected: formatFloat(want.final), actual: "(no number)"}
		if len(got) > 0 {
			main.present = true
			main.actual = formatFloat(got[0])
			// integer vs floating point rounding in the submission
			main.ok = math.Abs(got[0]-want.final) <= 1
		}
		extra := check{expected: formatFloat(want.doubleYears)}
		if len(got) > 1 {
			extra.present = true
			extra.actual = formatFloat(got[1])
			extra.ok = got[1] == want.doubleYears
		}
		results[i] = caseResult(run, main, extra)
	}
	return results
}
