package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerdict(t *testing.T) {
	tests := []struct {
		name   string
		report Report
		want   bool
		failed []string
	}{
		{
			name:   "all clean",
			report: Report{Results: []ScanResult{{RuleName: "a"}, {RuleName: "b"}}},
			want:   true,
		},
		{
			name:   "tree hit",
			report: Report{Results: []ScanResult{{RuleName: "a", FoundInTree: true}, {RuleName: "b"}}},
			failed: []string{"a"},
		},
		{
			name:   "history hit",
			report: Report{Results: []ScanResult{{RuleName: "a"}, {RuleName: "b", FoundInHistory: true}}},
			failed: []string{"b"},
		},
		{
			name: "secrets file only",
			report: Report{
				Results:      []ScanResult{{RuleName: "a"}},
				SecretsFiles: []HistoricalFile{{Commit: "abc", Path: ".env"}},
			},
		},
		{
			name: "advisory does not fail",
			report: Report{
				Results:        []ScanResult{{RuleName: "a"}},
				IgnoreAdvisory: ".gitignore not found",
			},
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.report.Verdict())
			assert.Equal(t, tt.failed, tt.report.FailedRules())
		})
	}
}
