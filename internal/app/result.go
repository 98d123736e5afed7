package service

import (
	"sort"

	"github.com/dalmatianosrs/RuneTracker-Pro/internal/domain/model"
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/domain/types"
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/domain/xpcurve"
)

// LookupResult is the merged outcome of one lookup.
type LookupResult struct {
	ID        string
	Subject   string
	Profile   model.Profile
	Gains     model.GainsRecord
	FromCache bool
	History   model.SubjectHistory
	// Duplicate is set when the snapshot repeated the previous one and was not stored.
	Duplicate bool
	// PersistErr is repository.ErrStorageFull or repository.ErrPersistence
	// when the snapshot could not be saved.
	PersistErr error
}

// WeeklyGain returns the 7-day delta of a skill in tenths of a point.
func (r LookupResult) WeeklyGain(id int) (int64, bool) {
	v, ok := r.Gains.Week[id]
	return v, ok
}

// WeeklyTotal sums the positive 7-day deltas of all skills, Overall excluded.
func (r LookupResult) WeeklyTotal() int64 {
	var total int64
	for id, v := range r.Gains.Week {
		if id == model.OverallSkillID || v <= 0 {
			continue
		}
		total += v
	}
	return total
}

// TopGains ranks skills by 7-day gain, highest first. Overall and
// non-positive gains are left out. n <= 0 returns every entry.
func (r LookupResult) TopGains(n int) []types.Entry {
	entries := make([]types.Entry, 0, len(r.Gains.Week))
	for id, v := range r.Gains.Week {
		if id == model.OverallSkillID || v <= 0 {
			continue
		}
		entries = append(entries, types.Entry{
			SkillID: id,
			Name:    model.SkillName(id),
			Gain:    v,
			Display: v / 10,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Gain != entries[j].Gain {
			return entries[i].Gain > entries[j].Gain
		}
		return entries[i].SkillID < entries[j].SkillID
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// SkillProgress pairs a skill with its position on the experience curve.
type SkillProgress struct {
	Definition model.SkillDefinition
	Skill      model.Skill
	Progress   xpcurve.Progress
}

// Progress returns curve progress for every known skill in the profile, by id.
func (r LookupResult) Progress() []SkillProgress {
	out := make([]SkillProgress, 0, len(r.Profile.Skills))
	for _, sk := range r.Profile.Skills {
		def, ok := model.Definition(sk.ID)
		if !ok {
			continue
		}
		out = append(out, SkillProgress{Definition: def, Skill: sk, Progress: xpcurve.ProgressOf(sk, def)})
	}
	return out
}

var categoryOrder = []model.Category{
	model.CategoryCombat,
	model.CategoryGathering,
	model.CategoryArtisan,
	model.CategorySupport,
	model.CategoryElite,
}

// CategoryAverages returns the mean level per skill category. Categories
// with no reported skill are omitted.
func (r LookupResult) CategoryAverages() []types.CategoryAverage {
	sums := make(map[model.Category]int)
	counts := make(map[model.Category]int)
	for _, sk := range r.Profile.Skills {
		def, ok := model.Definition(sk.ID)
		if !ok {
			continue
		}
		sums[def.Category] += sk.Level
		counts[def.Category]++
	}
	out := make([]types.CategoryAverage, 0, len(categoryOrder))
	for _, c := range categoryOrder {
		if counts[c] == 0 {
			continue
		}
		out = append(out, types.CategoryAverage{
			Category: string(c),
			Average:  float64(sums[c]) / float64(counts[c]),
			Skills:   counts[c],
		})
	}
	return out
}

// Series returns chart points for a skill, or for total experience when
// skillID is model.OverallSkillID. Skill experience is converted from
// tenths to whole points.
func Series(h model.SubjectHistory, skillID int) []types.SeriesPoint {
	points := make([]types.SeriesPoint, 0, len(h.Snapshots))
	for _, snap := range h.Snapshots {
		if skillID == model.OverallSkillID {
			points = append(points, types.SeriesPoint{
				Timestamp: snap.Timestamp,
				Value:     float64(snap.TotalXP),
				Level:     snap.TotalLevel,
			})
			continue
		}
		st, ok := snap.Skills[skillID]
		if !ok {
			continue
		}
		points = append(points, types.SeriesPoint{
			Timestamp: snap.Timestamp,
			Value:     float64(st.XP) / 10,
			Level:     st.Level,
		})
	}
	return points
}

// Summaries describes every history, ordered by subject key.
func Summaries(all map[string]model.SubjectHistory) []types.HistorySummary {
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]types.HistorySummary, 0, len(keys))
	for _, k := range keys {
		h := all[k]
		sum := types.HistorySummary{Subject: h.Subject, Entries: len(h.Snapshots)}
		if last, ok := h.Last(); ok {
			sum.LastSeen = last.Timestamp
			sum.TotalXP = last.TotalXP
		}
		out = append(out, sum)
	}
	return out
}
