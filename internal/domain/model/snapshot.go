package model

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// SkillState is the per-skill part of a Snapshot.
type SkillState struct {
	XP    int64 `json:"xp"`
	Level int   `json:"level"`
	Rank  int64 `json:"rank"`
}

// Snapshot is an immutable point-in-time capture of a subject's skills.
type Snapshot struct {
	Timestamp  time.Time          `json:"timestamp"`
	Skills     map[int]SkillState `json:"skills"`
	TotalXP    int64              `json:"totalXp"`
	TotalLevel int                `json:"totalLevel"`
}

// NewSnapshot digests p into a Snapshot taken at at.
func NewSnapshot(p Profile, at time.Time) Snapshot {
	skills := make(map[int]SkillState, len(p.Skills))
	for _, s := range p.Skills {
		skills[s.ID] = SkillState{XP: s.XP, Level: s.Level, Rank: s.Rank}
	}
	return Snapshot{
		Timestamp:  at,
		Skills:     skills,
		TotalXP:    p.TotalXP,
		TotalLevel: p.TotalSkill,
	}
}

// SubjectHistory is the chronological list of snapshots for one subject.
type SubjectHistory struct {
	Subject   string     `json:"rsn"`
	Snapshots []Snapshot `json:"snapshots"`
}

// Last returns the most recent snapshot.
func (h SubjectHistory) Last() (Snapshot, bool) {
	if len(h.Snapshots) == 0 {
		return Snapshot{}, false
	}
	return h.Snapshots[len(h.Snapshots)-1], true
}

// SubjectKey normalizes a subject identifier for storage and cache lookups.
// Two spellings that differ only in case map to the same key.
func SubjectKey(subject string) string {
	return cases.Fold().String(strings.TrimSpace(subject))
}
