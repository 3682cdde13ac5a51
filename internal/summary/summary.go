package summary

import "github.com/programme-lv/labgrader/internal/suite"

// Summary condenses one student's test results for display.
type Summary struct {
	Passed          int
	Total           int
	Infos           int
	AdditionalInfos int
	Status          suite.AdditionalStatus
}

func Summarize(results []suite.TestResult) Summary {
	s := Summary{Total: len(results)}
	statuses := make([]suite.AdditionalStatus, 0, len(results))
	for _, r := range results {
		if r.Passed {
			s.Passed++
		}
		if r.Infos != nil {
			s.Infos++
		}
		if r.AdditionalInfos != nil {
			s.AdditionalInfos++
		}
		statuses = append(statuses, r.AdditionalStatus)
	}
	s.Status = Fold(statuses)
	return s
}

// Fold combines per-test extra-credit statuses. Partial anywhere wins; else
// None anywhere wins; else Full. Unset counts as None and an empty list
// folds to None, so a missing submission never reads as full completion.
func Fold(statuses []suite.AdditionalStatus) suite.AdditionalStatus {
	if len(statuses) == 0 {
		return suite.StatusNone
	}
	acc := suite.StatusFull
	for _, st := range statuses {
		st = st.Resolved()
		switch {
		case st == suite.StatusPartial || acc == suite.StatusPartial:
			acc = suite.StatusPartial
		case st == suite.StatusNone || acc == suite.StatusNone:
			acc = suite.StatusNone
		default:
			acc = suite.StatusFull
		}
	}
	return acc
}
