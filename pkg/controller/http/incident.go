package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
)

type incidentResponse struct {
	ID                string     `json:"id"`
	RiskID            string     `json:"riskId"`
	Summary           string     `json:"summary"`
	Description       string     `json:"description"`
	MitigationSteps   string     `json:"mitigationSteps"`
	CurrentStatusText string     `json:"currentStatusText"`
	OccurredAt        time.Time  `json:"occurredAt"`
	ClosedDate        *time.Time `json:"closedDate"`
	Department        string     `json:"department"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

func toIncidentResponse(i *model.Incident) incidentResponse {
	return incidentResponse{
		ID:                string(i.ID),
		RiskID:            string(i.RiskID),
		Summary:           i.Summary,
		Description:       i.Description,
		MitigationSteps:   i.MitigationSteps,
		CurrentStatusText: i.CurrentStatusText,
		OccurredAt:        i.OccurredAt,
		ClosedDate:        i.ClosedDate,
		Department:        i.Department,
		CreatedAt:         i.CreatedAt,
		UpdatedAt:         i.UpdatedAt,
	}
}

type createIncidentRequest struct {
	RiskID            string    `json:"riskId"`
	Summary           string    `json:"summary"`
	Description       string    `json:"description"`
	MitigationSteps   string    `json:"mitigationSteps"`
	CurrentStatusText string    `json:"currentStatusText"`
	OccurredAt        time.Time `json:"occurredAt"`
}

type updateIncidentRequest struct {
	Summary           *string    `json:"summary"`
	Description       *string    `json:"description"`
	MitigationSteps   *string    `json:"mitigationSteps"`
	CurrentStatusText *string    `json:"currentStatusText"`
	OccurredAt        *time.Time `json:"occurredAt"`
}

func (s *Server) listIncidents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	incidents, err := s.uc.Incident.ListVisibleIncidents(ctx, viewerFromContext(ctx))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	resp := make([]incidentResponse, len(incidents))
	for i, incident := range incidents {
		resp[i] = toIncidentResponse(incident)
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

func (s *Server) createIncident(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req createIncidentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	incident, err := s.uc.Incident.CreateIncident(ctx, viewerFromContext(ctx), model.IncidentInput{
		RiskID:            model.RiskID(req.RiskID),
		Summary:           req.Summary,
		Description:       req.Description,
		MitigationSteps:   req.MitigationSteps,
		CurrentStatusText: req.CurrentStatusText,
		OccurredAt:        req.OccurredAt,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusCreated, toIncidentResponse(incident))
}

func (s *Server) updateIncident(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req updateIncidentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	incident, err := s.uc.Incident.UpdateIncident(ctx, viewerFromContext(ctx),
		model.IncidentID(chi.URLParam(r, "incidentID")),
		&model.IncidentPatch{
			Summary:           req.Summary,
			Description:       req.Description,
			MitigationSteps:   req.MitigationSteps,
			CurrentStatusText: req.CurrentStatusText,
			OccurredAt:        req.OccurredAt,
		})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, toIncidentResponse(incident))
}

func (s *Server) closeIncident(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	incident, err := s.uc.Incident.CloseIncident(ctx, viewerFromContext(ctx), model.IncidentID(chi.URLParam(r, "incidentID")))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, toIncidentResponse(incident))
}

func (s *Server) deleteIncident(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.uc.Incident.DeleteIncident(ctx, viewerFromContext(ctx), model.IncidentID(chi.URLParam(r, "incidentID"))); err != nil {
		writeError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
