package models

import "fmt"

// Range is a time window requested for an insight.
type Range string

const (
	RangeDay   Range = "day"
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
	RangeYear  Range = "year"
)

// ParseRange validates a user-supplied range name.
func ParseRange(s string) (Range, error) {
	switch r := Range(s); r {
	case RangeDay, RangeWeek, RangeMonth, RangeYear:
		return r, nil
	}
	return "", fmt.Errorf("unknown range %q", s)
}

// Sample is one entry in compact form: day, rounded sentiment, short note.
type Sample struct {
	D string  `json:"d"`
	M float64 `json:"m"`
	N string  `json:"n"`
}

type MonthlyAverage struct {
	Month string  `json:"month"`
	Avg   float64 `json:"avg"`
	Count int     `json:"count"`
}

type QuarterlyAverage struct {
	Quarter string  `json:"quarter"`
	Avg     float64 `json:"avg"`
	Count   int     `json:"count"`
}

// RangeSummary is the bounded aggregate of mood history for one range.
// Year summaries carry monthly or quarterly averages and never samples.
type RangeSummary struct {
	Range              Range              `json:"range"`
	EntryCount         int                `json:"entryCount"`
	OverallAverage     float64            `json:"overallAverage"`
	YearlyAverage      *float64           `json:"yearlyAverage,omitempty"`
	StabilityScore     int                `json:"stabilityScore"`
	InstabilityIndex   float64            `json:"instabilityIndex"`
	NegativeDays       int                `json:"negativeDays"`
	PositiveDays       int                `json:"positiveDays"`
	CommonNegativeTime *Slot              `json:"commonNegativeTime"`
	Samples            []Sample           `json:"samples,omitempty"`
	MonthlyAverages    []MonthlyAverage   `json:"monthlyAverages,omitempty"`
	QuarterlyAverages  []QuarterlyAverage `json:"quarterlyAverages,omitempty"`
}
