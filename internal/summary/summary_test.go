package summary_test

import (
	"testing"

	"github.com/programme-lv/labgrader/internal/suite"
	"github.com/programme-lv/labgrader/internal/summary"
	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	const (
		u = suite.StatusUnset
		n = suite.StatusNone
		p = suite.StatusPartial
		f = suite.StatusFull
	)
	tests := []struct {
		name string
		in   []suite.AdditionalStatus
		want suite.AdditionalStatus
	}{
		{"empty", nil, n},
		{"partial", []suite.AdditionalStatus{p}, p},
		{"none", []suite.AdditionalStatus{n}, n},
		{"unset counts as none", []suite.AdditionalStatus{u}, n},
		{"partial then none", []suite.AdditionalStatus{p, n}, p},
		{"none then partial", []suite.AdditionalStatus{n, p}, p},
		{"full full", []suite.AdditionalStatus{f, f}, f},
		{"full none", []suite.AdditionalStatus{f, n}, n},
		{"none full", []suite.AdditionalStatus{n, f}, n},
		{"full unset", []suite.AdditionalStatus{f, u}, n},
		{"full partial full", []suite.AdditionalStatus{f, p, f}, p},
		{"none unset partial", []suite.AdditionalStatus{n, u, p}, p},
		{"single full", []suite.AdditionalStatus{f}, f},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, summary.Fold(tt.in))
		})
	}
}

func TestSummarize(t *testing.T) {
	results := []suite.TestResult{
		{Passed: true, AdditionalStatus: suite.StatusFull},
		{Passed: false, Infos: map[string]string{"expected": "3.14"}, AdditionalStatus: suite.StatusFull},
		{Passed: true, AdditionalInfos: map[string]string{"extra": "1"}, AdditionalStatus: suite.StatusFull},
		{Passed: true, Infos: map[string]string{}, AdditionalStatus: suite.StatusFull},
	}
	got := summary.Summarize(results)
	assert.Equal(t, summary.Summary{
		Passed:          3,
		Total:           4,
		Infos:           2,
		AdditionalInfos: 1,
		Status:          suite.StatusFull,
	}, got)
}

func TestSummarizeEmpty(t *testing.T) {
	got := summary.Summarize(nil)
	assert.Equal(t, summary.Summary{Status: suite.StatusNone}, got)
}
