// Package model contains domain models passed between layers.
package model

import (
	"sort"
	"strings"
)

// Unranked marks a rank the stats source did not report.
const Unranked int64 = -1

// OverallSkillID identifies the aggregate "Overall" row of the gains tracker.
const OverallSkillID = -1

// Category groups skills for the mastery overview.
type Category string

// Skill categories.
const (
	CategoryCombat    Category = "Combat"
	CategoryGathering Category = "Gathering"
	CategoryArtisan   Category = "Artisan"
	CategorySupport   Category = "Support"
	CategoryElite     Category = "Elite"
)

// Skill is one skill's state as reported by the stats source.
// XP is expressed in tenths of an experience point.
type Skill struct {
	ID    int   `json:"id"`
	Level int   `json:"level"`
	XP    int64 `json:"xp"`
	Rank  int64 `json:"rank"`
}

// SkillDefinition is the static description of a skill.
type SkillDefinition struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	MaxLevel int      `json:"max_level"`
	Elite    bool     `json:"elite"`
	Category Category `json:"category"`
}

var definitions = map[int]SkillDefinition{
	0:  {ID: 0, Name: "Attack", MaxLevel: 99, Category: CategoryCombat},
	1:  {ID: 1, Name: "Defence", MaxLevel: 99, Category: CategoryCombat},
	2:  {ID: 2, Name: "Strength", MaxLevel: 99, Category: CategoryCombat},
	3:  {ID: 3, Name: "Constitution", MaxLevel: 99, Category: CategoryCombat},
	4:  {ID: 4, Name: "Ranged", MaxLevel: 99, Category: CategoryCombat},
	5:  {ID: 5, Name: "Prayer", MaxLevel: 99, Category: CategoryCombat},
	6:  {ID: 6, Name: "Magic", MaxLevel: 99, Category: CategoryCombat},
	7:  {ID: 7, Name: "Cooking", MaxLevel: 99, Category: CategoryArtisan},
	8:  {ID: 8, Name: "Woodcutting", MaxLevel: 99, Category: CategoryGathering},
	9:  {ID: 9, Name: "Fletching", MaxLevel: 99, Category: CategoryArtisan},
	10: {ID: 10, Name: "Fishing", MaxLevel: 99, Category: CategoryGathering},
	11: {ID: 11, Name: "Firemaking", MaxLevel: 99, Category: CategoryArtisan},
	12: {ID: 12, Name: "Crafting", MaxLevel: 99, Category: CategoryArtisan},
	13: {ID: 13, Name: "Smithing", MaxLevel: 99, Category: CategoryArtisan},
	14: {ID: 14, Name: "Mining", MaxLevel: 99, Category: CategoryGathering},
	15: {ID: 15, Name: "Herblore", MaxLevel: 120, Category: CategoryArtisan},
	16: {ID: 16, Name: "Agility", MaxLevel: 99, Category: CategorySupport},
	17: {ID: 17, Name: "Thieving", MaxLevel: 99, Category: CategorySupport},
	18: {ID: 18, Name: "Slayer", MaxLevel: 120, Category: CategoryCombat},
	19: {ID: 19, Name: "Farming", MaxLevel: 120, Category: CategoryGathering},
	20: {ID: 20, Name: "Runecrafting", MaxLevel: 99, Category: CategoryArtisan},
	21: {ID: 21, Name: "Hunter", MaxLevel: 99, Category: CategoryGathering},
	22: {ID: 22, Name: "Construction", MaxLevel: 99, Category: CategorySupport},
	23: {ID: 23, Name: "Summoning", MaxLevel: 99, Category: CategoryCombat},
	24: {ID: 24, Name: "Dungeoneering", MaxLevel: 120, Category: CategorySupport},
	25: {ID: 25, Name: "Divination", MaxLevel: 99, Category: CategoryGathering},
	26: {ID: 26, Name: "Invention", MaxLevel: 120, Elite: true, Category: CategoryElite},
	27: {ID: 27, Name: "Archaeology", MaxLevel: 120, Category: CategoryGathering},
	28: {ID: 28, Name: "Necromancy", MaxLevel: 120, Category: CategoryCombat},
}

// aliases maps lower-cased names, abbreviations and icon labels to skill ids.
// Full skill names are added in init.
var aliases = map[string]int{
	"overall": OverallSkillID, "total": OverallSkillID,
	"att": 0, "atk": 0,
	"def": 1, "defense": 1,
	"str": 2,
	"hp": 3, "hitpoints": 3, "cons": 3, "const": 3,
	"range": 4, "rng": 4,
	"pray": 5,
	"mage": 6,
	"cook": 7,
	"wc": 8, "wcing": 8,
	"fletch": 9,
	"fish": 10,
	"fm": 11, "fming": 11,
	"craft": 12,
	"smith": 13,
	"mine": 14,
	"herb": 15,
	"agil": 16, "agi": 16,
	"thiev": 17, "thieve": 17,
	"slay": 18,
	"farm": 19,
	"rc": 20, "runecraft": 20,
	"hunt": 21,
	"con": 22,
	"summ": 23, "summon": 23,
	"dung": 24, "dg": 24,
	"div": 25,
	"inv": 26, "invent": 26,
	"arch": 27, "arc": 27,
	"necro": 28,
}

func init() {
	for id, def := range definitions {
		aliases[strings.ToLower(def.Name)] = id
		aliases[strings.ToLower(def.Name)+" icon"] = id
	}
	aliases["overall icon"] = OverallSkillID
}

// Definition returns the static definition for id.
func Definition(id int) (SkillDefinition, bool) {
	def, ok := definitions[id]
	return def, ok
}

// Definitions returns every skill definition ordered by id.
func Definitions() []SkillDefinition {
	out := make([]SkillDefinition, 0, len(definitions))
	for _, def := range definitions {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SkillName returns the display name for id, "Overall" for the aggregate row.
func SkillName(id int) string {
	if id == OverallSkillID {
		return "Overall"
	}
	if def, ok := definitions[id]; ok {
		return def.Name
	}
	return "Unknown Skill"
}

// LookupSkill resolves a label (name, abbreviation or icon text) to a skill id.
// Matching is case-insensitive and ignores surrounding whitespace.
func LookupSkill(label string) (int, bool) {
	key := strings.ToLower(strings.TrimSpace(label))
	if key == "" {
		return 0, false
	}
	id, ok := aliases[key]
	return id, ok
}
