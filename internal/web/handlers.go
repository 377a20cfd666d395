package web

import (
	"encoding/json"
	"net/http"

	"github.com/ppiankov/churnwatch/internal/model"
	"github.com/ppiankov/churnwatch/internal/scoring"
)

// maxBodyBytes caps form and JSON request bodies.
const maxBodyBytes = 64 << 10

// scoreResponse is the JSON body of a successful POST /api/v1/score.
type scoreResponse struct {
	Report          string         `json:"report"`
	Score           int            `json:"score"`
	Level           string         `json:"level"`
	Probability     string         `json:"probability"`
	Recommendations []string       `json:"recommendations"`
	Factors         []model.Factor `json:"factors"`
	AssessmentID    string         `json:"assessment_id"`
	WeightsHash     string         `json:"weights_hash"`
}

type tierResponse struct {
	Level       string `json:"level"`
	Min         int    `json:"min"`
	Probability string `json:"probability"`
}

type weightsResponse struct {
	Path  string         `json:"path,omitempty"`
	Hash  string         `json:"hash"`
	Tiers []tierResponse `json:"tiers"`
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, newPage(defaultForm(), ""))
}

// submit scores the posted form and re-renders it with the report filled in.
func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	raw := formProfile(r)
	out := h.engine.Assess(r.Context(), SourceWeb, raw)
	h.renderPage(w, r, newPage(raw, out.String()))
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, p page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, p); err != nil {
		httpLogger().ErrorContext(r.Context(), "render form failed",
			"request_id", requestIDFromContext(r.Context()),
			"error", err,
		)
	}
}

// score is the JSON API. Computation errors answer 422 with the
// "Error: ..." text, so API clients see the same message as the form.
func (h *Handler) score(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var raw scoring.RawProfile
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, scoring.ErrorPrefix+"invalid JSON body: "+err.Error())
		return
	}

	out := h.engine.Assess(r.Context(), SourceWeb, raw)
	if !out.OK() {
		writeError(w, http.StatusUnprocessableEntity, out.String())
		return
	}

	rep := out.Report
	writeJSON(w, http.StatusOK, scoreResponse{
		Report:          out.Text,
		Score:           rep.RiskScore,
		Level:           string(rep.RiskLevel),
		Probability:     rep.Probability,
		Recommendations: rep.Recommendations,
		Factors:         rep.Factors,
		AssessmentID:    out.AssessmentID,
		WeightsHash:     out.WeightsHash,
	})
}

func (h *Handler) weights(w http.ResponseWriter, r *http.Request) {
	wt, hash := h.engine.Weights()
	resp := weightsResponse{Path: h.engine.WeightsPath(), Hash: hash}
	for _, t := range wt.Tiers {
		resp.Tiers = append(resp.Tiers, tierResponse{Level: string(t.Level), Min: t.Min, Probability: t.Probability})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
