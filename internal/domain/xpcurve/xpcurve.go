// Package xpcurve maps skill levels to cumulative experience.
package xpcurve

import (
	"math"

	"github.com/dalmatianosrs/RuneTracker-Pro/internal/domain/model"
)

// Curve selects the experience table a skill follows.
type Curve int

// Supported curves.
const (
	Standard Curve = iota
	Elite
)

// MaxXP is the experience cap of every skill.
const MaxXP int64 = 200_000_000

// Known points of the elite curve. Above the last one the curve is saturated.
var eliteMilestones = []struct {
	level int
	xp    int64
}{
	{99, 36_073_511},
	{120, 80_610_333},
	{150, MaxXP},
}

// CurveOf returns the curve used by def.
func CurveOf(def model.SkillDefinition) Curve {
	if def.Elite {
		return Elite
	}
	return Standard
}

// XPForLevel returns the cumulative experience required to reach level.
// Levels at or below 1 require no experience.
func XPForLevel(level int, curve Curve) int64 {
	if level <= 1 {
		return 0
	}
	if curve == Elite {
		return eliteXP(level)
	}
	var total int64
	for i := 1; i < level; i++ {
		total += int64(math.Floor(float64(i) + 300*math.Pow(2, float64(i)/7)))
	}
	return total / 4
}

func eliteXP(level int) int64 {
	first := eliteMilestones[0]
	if level < first.level {
		return eliteApprox(level)
	}
	for i := 1; i < len(eliteMilestones); i++ {
		lo, hi := eliteMilestones[i-1], eliteMilestones[i]
		if level == lo.level {
			return lo.xp
		}
		if level < hi.level {
			frac := float64(level-lo.level) / float64(hi.level-lo.level)
			ratio := float64(hi.xp) / float64(lo.xp)
			return int64(math.Floor(float64(lo.xp) * math.Pow(ratio, frac)))
		}
	}
	return MaxXP
}

// eliteApprox is the closed-form approximation used below the first milestone.
// It is not the official table.
func eliteApprox(level int) int64 {
	return int64(math.Floor(0.22 * math.Pow(float64(level), 3.8)))
}

// LevelForXP returns the highest level in [1, maxLevel] whose requirement is
// covered by xp.
func LevelForXP(xp int64, curve Curve, maxLevel int) int {
	level := 1
	for l := 2; l <= maxLevel; l++ {
		if XPForLevel(l, curve) > xp {
			break
		}
		level = l
	}
	return level
}

// Progress describes how far a skill is through its current level.
// Experience values are whole points.
type Progress struct {
	CurrentXP    float64 `json:"current_xp"`
	CurrentLevel int     `json:"current_level"`
	NextLevel    int     `json:"next_level"`
	XPToNext     int64   `json:"xp_to_next"`
	RemainingXP  float64 `json:"remaining_xp"`
	Percent      float64 `json:"percent"`
	Maxed        bool    `json:"maxed"`
}

// ProgressOf computes the level progress of s. A skill at its maximum level
// reports progress toward the experience cap.
func ProgressOf(s model.Skill, def model.SkillDefinition) Progress {
	curve := CurveOf(def)
	current := float64(s.XP) / 10
	next := min(s.Level+1, def.MaxLevel)
	base := XPForLevel(s.Level, curve)
	target := XPForLevel(next, curve)

	p := Progress{
		CurrentXP:    current,
		CurrentLevel: s.Level,
		NextLevel:    next,
		XPToNext:     target,
		RemainingXP:  math.Max(0, float64(target)-current),
	}
	if s.Level >= def.MaxLevel {
		p.Maxed = true
		p.Percent = math.Min(100, current/float64(MaxXP)*100)
		return p
	}
	if span := float64(target - base); span > 0 {
		p.Percent = math.Max(0, math.Min(100, (current-float64(base))/span*100))
	}
	return p
}
