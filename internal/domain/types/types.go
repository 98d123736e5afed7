// Package types contains view types shared by the service and its transports.
package types

import "time"

// Entry is one ranked skill in a top-gains list.
type Entry struct {
	Rank    int    `json:"rank"`
	SkillID int    `json:"skill_id"`
	Name    string `json:"name"`
	// Gain is in tenths of an experience point; Display is whole points.
	Gain    int64 `json:"gain"`
	Display int64 `json:"display"`
}

// SeriesPoint is one sample of a history chart. Value is in whole points.
type SeriesPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
	Level     int       `json:"level,omitempty"`
}

// CategoryAverage is the mean level of the skills in one category.
type CategoryAverage struct {
	Category string  `json:"category"`
	Average  float64 `json:"average"`
	Skills   int     `json:"skills"`
}

// HistorySummary describes one subject's stored history.
type HistorySummary struct {
	Subject  string    `json:"subject"`
	Entries  int       `json:"entries"`
	LastSeen time.Time `json:"last_seen"`
	TotalXP  int64     `json:"total_xp"`
}
