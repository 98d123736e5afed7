package model

// Profile is a freshly fetched view of a subject's current stats. It is never
// persisted directly; NewSnapshot digests it into a Snapshot.
type Profile struct {
	Name        string  `json:"name"`
	Rank        int64   `json:"rank"`
	TotalSkill  int     `json:"total_skill"`
	TotalXP     int64   `json:"total_xp"`
	CombatLevel int     `json:"combat_level"`
	Skills      []Skill `json:"skills"`
}

// Skill returns the skill with the given id.
func (p Profile) Skill(id int) (Skill, bool) {
	for _, s := range p.Skills {
		if s.ID == id {
			return s, true
		}
	}
	return Skill{}, false
}
