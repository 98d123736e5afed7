package api

import (
	"net/http"
	"strconv"
	"strings"

	service "github.com/dalmatianosrs/RuneTracker-Pro/internal/app"
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/domain/model"
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/domain/types"
)

// HistoryHandler handles stored history requests.
type HistoryHandler struct {
	deps Dependencies
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(deps Dependencies) *HistoryHandler {
	return &HistoryHandler{deps: deps}
}

type historyList struct {
	Subjects []types.HistorySummary `json:"subjects"`
}

type seriesView struct {
	Subject string              `json:"subject"`
	SkillID int                 `json:"skill_id"`
	Skill   string              `json:"skill"`
	Points  []types.SeriesPoint `json:"points"`
}

type clearResponse struct {
	Status string `json:"status"`
	Reload bool   `json:"reload"`
}

// HandleList handles GET /history requests.
func (h *HistoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, historyList{Subjects: h.deps.Histories(r.Context())})
}

// HandleSeries handles GET /history/{subject}?skill=<id> requests. The
// skill defaults to total experience.
func (h *HistoryHandler) HandleSeries(w http.ResponseWriter, r *http.Request) {
	subject := strings.TrimSpace(r.PathValue("subject"))
	if subject == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	skillID := model.OverallSkillID
	if raw := r.URL.Query().Get("skill"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", ErrUnknownSkill)
			return
		}
		if _, ok := model.Definition(id); !ok && id != model.OverallSkillID {
			writeError(w, http.StatusBadRequest, "bad_request", ErrUnknownSkill)
			return
		}
		skillID = id
	}

	hist, ok := h.deps.History(r.Context(), subject)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", ErrNoHistory)
		return
	}
	writeJSON(w, http.StatusOK, seriesView{
		Subject: hist.Subject,
		SkillID: skillID,
		Skill:   model.SkillName(skillID),
		Points:  service.Series(hist, skillID),
	})
}

// HandleClear handles DELETE /history requests.
func (h *HistoryHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.ClearAll(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "persistence_error", err)
		return
	}
	writeJSON(w, http.StatusOK, clearResponse{Status: "cleared", Reload: true})
}
