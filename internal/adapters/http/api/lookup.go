package api

import (
	"net/http"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	service "github.com/dalmatianosrs/RuneTracker-Pro/internal/app"
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/domain/model"
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/domain/types"
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/domain/xpcurve"
)

// topGainsLimit is the number of entries in the top gains list.
const topGainsLimit = 5

// LookupHandler handles lookup requests.
type LookupHandler struct {
	deps    Dependencies
	printer *message.Printer
}

// NewLookupHandler creates a new lookup handler.
func NewLookupHandler(deps Dependencies) *LookupHandler {
	return &LookupHandler{deps: deps, printer: message.NewPrinter(language.English)}
}

type profileView struct {
	Name        string `json:"name"`
	Rank        int64  `json:"rank"`
	TotalSkill  int    `json:"total_skill"`
	TotalXP     int64  `json:"total_xp"`
	CombatLevel int    `json:"combat_level"`
}

type skillView struct {
	ID       int              `json:"id"`
	Name     string           `json:"name"`
	Category model.Category   `json:"category"`
	Elite    bool             `json:"elite"`
	Level    int              `json:"level"`
	XP       float64          `json:"xp"`
	Rank     int64            `json:"rank"`
	Progress xpcurve.Progress `json:"progress"`
	// WeeklyGain is in whole points; nil when the tracker has no value.
	WeeklyGain     *int64 `json:"weekly_gain,omitempty"`
	WeeklyGainText string `json:"weekly_gain_text,omitempty"`
}

type gainsView struct {
	Available bool              `json:"available"`
	FromCache bool              `json:"from_cache"`
	Reason    model.GainsReason `json:"reason,omitempty"`
	Error     string            `json:"error,omitempty"`
}

type lookupView struct {
	LookupID        string                  `json:"lookup_id"`
	Subject         string                  `json:"subject"`
	Profile         profileView             `json:"profile"`
	Skills          []skillView             `json:"skills"`
	Gains           gainsView               `json:"gains"`
	TopGains        []types.Entry           `json:"top_gains"`
	WeeklyTotal     int64                   `json:"weekly_total"`
	WeeklyTotalText string                  `json:"weekly_total_text"`
	Categories      []types.CategoryAverage `json:"categories"`
	History         []types.SeriesPoint     `json:"history"`
	Duplicate       bool                    `json:"duplicate"`
	PersistError    *errorResponse          `json:"persist_error,omitempty"`
	GeneratedAt     time.Time               `json:"generated_at"`
}

// HandleLookup handles GET /lookup/{subject} requests.
func (h *LookupHandler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	res, err := h.deps.Lookup(r.Context(), r.PathValue("subject"))
	if err != nil {
		status, code, msg := lookupStatus(err)
		writeJSON(w, status, errorResponse{Code: code, Message: msg})
		return
	}
	writeJSON(w, http.StatusOK, h.view(res))
}

func (h *LookupHandler) view(res service.LookupResult) lookupView {
	v := lookupView{
		LookupID: res.ID,
		Subject:  res.Subject,
		Profile: profileView{
			Name:        res.Profile.Name,
			Rank:        res.Profile.Rank,
			TotalSkill:  res.Profile.TotalSkill,
			TotalXP:     res.Profile.TotalXP,
			CombatLevel: res.Profile.CombatLevel,
		},
		Gains: gainsView{
			Available: res.Gains.Available,
			FromCache: res.FromCache,
			Reason:    res.Gains.Reason,
			Error:     res.Gains.Error,
		},
		TopGains:     res.TopGains(topGainsLimit),
		WeeklyTotal:  res.WeeklyTotal() / 10,
		Categories:   res.CategoryAverages(),
		History:      service.Series(res.History, model.OverallSkillID),
		Duplicate:    res.Duplicate,
		PersistError: persistError(res.PersistErr),
		GeneratedAt:  time.Now().UTC(),
	}
	v.WeeklyTotalText = h.printer.Sprintf("%d", v.WeeklyTotal)

	for _, sp := range res.Progress() {
		sv := skillView{
			ID:       sp.Definition.ID,
			Name:     sp.Definition.Name,
			Category: sp.Definition.Category,
			Elite:    sp.Definition.Elite,
			Level:    sp.Skill.Level,
			XP:       float64(sp.Skill.XP) / 10,
			Rank:     sp.Skill.Rank,
			Progress: sp.Progress,
		}
		if g, ok := res.WeeklyGain(sp.Skill.ID); ok && res.Gains.Available {
			whole := g / 10
			sv.WeeklyGain = &whole
			sv.WeeklyGainText = h.printer.Sprintf("%+d", whole)
		}
		v.Skills = append(v.Skills, sv)
	}
	return v
}
