package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
	"github.com/secmon-lab/riskledger/pkg/domain/types"
)

type riskResponse struct {
	ID                     string    `json:"id"`
	RiskNo                 string    `json:"riskNo"`
	Department             string    `json:"department"`
	Name                   string    `json:"name"`
	Description            string    `json:"description"`
	Impact                 string    `json:"impact"`
	Likelihood             string    `json:"likelihood"`
	Status                 string    `json:"status"`
	OwnerID                string    `json:"ownerId"`
	CreatedByUserID        string    `json:"createdByUserId"`
	Identification         string    `json:"identification"`
	ExistingControlInPlace string    `json:"existingControlInPlace"`
	PlanOfAction           string    `json:"planOfAction"`
	Category               string    `json:"category"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

func toRiskResponse(r *model.Risk) riskResponse {
	return riskResponse{
		ID:                     string(r.ID),
		RiskNo:                 r.RiskNo,
		Department:             r.Department,
		Name:                   r.Name,
		Description:            r.Description,
		Impact:                 string(r.Impact),
		Likelihood:             string(r.Likelihood),
		Status:                 string(r.Status),
		OwnerID:                string(r.OwnerID),
		CreatedByUserID:        string(r.CreatedByUserID),
		Identification:         string(r.Identification),
		ExistingControlInPlace: r.ExistingControlInPlace,
		PlanOfAction:           r.PlanOfAction,
		Category:               r.Category,
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
	}
}

func toRiskResponses(risks []*model.Risk) []riskResponse {
	resp := make([]riskResponse, len(risks))
	for i, r := range risks {
		resp[i] = toRiskResponse(r)
	}
	return resp
}

type createRiskRequest struct {
	Name                   string `json:"name"`
	Description            string `json:"description"`
	Department             string `json:"department"`
	Impact                 string `json:"impact"`
	Likelihood             string `json:"likelihood"`
	Status                 string `json:"status"`
	OwnerID                string `json:"ownerId"`
	Identification         string `json:"identification"`
	ExistingControlInPlace string `json:"existingControlInPlace"`
	PlanOfAction           string `json:"planOfAction"`
	Category               string `json:"category"`
}

func (req *createRiskRequest) toInput() (model.RiskInput, error) {
	impact, err := types.ParseImpact(req.Impact)
	if err != nil {
		return model.RiskInput{}, err
	}
	likelihood, err := types.ParseLikelihood(req.Likelihood)
	if err != nil {
		return model.RiskInput{}, err
	}
	identification, err := types.ParseIdentification(req.Identification)
	if err != nil {
		return model.RiskInput{}, err
	}
	var status types.RiskStatus
	if req.Status != "" {
		if status, err = types.ParseRiskStatus(req.Status); err != nil {
			return model.RiskInput{}, err
		}
	}

	return model.RiskInput{
		Name:                   req.Name,
		Description:            req.Description,
		Department:             req.Department,
		Impact:                 impact,
		Likelihood:             likelihood,
		Status:                 status,
		OwnerID:                model.OwnerID(req.OwnerID),
		Identification:         identification,
		ExistingControlInPlace: req.ExistingControlInPlace,
		PlanOfAction:           req.PlanOfAction,
		Category:               req.Category,
	}, nil
}

type updateRiskRequest struct {
	Name                   *string `json:"name"`
	Description            *string `json:"description"`
	Impact                 *string `json:"impact"`
	Likelihood             *string `json:"likelihood"`
	Status                 *string `json:"status"`
	OwnerID                *string `json:"ownerId"`
	Identification         *string `json:"identification"`
	ExistingControlInPlace *string `json:"existingControlInPlace"`
	PlanOfAction           *string `json:"planOfAction"`
	Category               *string `json:"category"`
}

func (req *updateRiskRequest) toPatch() (*model.RiskPatch, error) {
	patch := &model.RiskPatch{
		Name:                   req.Name,
		Description:            req.Description,
		ExistingControlInPlace: req.ExistingControlInPlace,
		PlanOfAction:           req.PlanOfAction,
		Category:               req.Category,
	}
	if req.Impact != nil {
		v, err := types.ParseImpact(*req.Impact)
		if err != nil {
			return nil, err
		}
		patch.Impact = &v
	}
	if req.Likelihood != nil {
		v, err := types.ParseLikelihood(*req.Likelihood)
		if err != nil {
			return nil, err
		}
		patch.Likelihood = &v
	}
	if req.Status != nil {
		v, err := types.ParseRiskStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		patch.Status = &v
	}
	if req.Identification != nil {
		v, err := types.ParseIdentification(*req.Identification)
		if err != nil {
			return nil, err
		}
		patch.Identification = &v
	}
	if req.OwnerID != nil {
		v := model.OwnerID(*req.OwnerID)
		patch.OwnerID = &v
	}
	return patch, nil
}

type historyResponse struct {
	ID              string    `json:"id"`
	RiskID          string    `json:"riskId"`
	ChangedAt       time.Time `json:"changedAt"`
	ChangedByUserID string    `json:"changedByUserId"`
	FieldName       string    `json:"fieldName"`
	OldValue        string    `json:"oldValue"`
	NewValue        string    `json:"newValue"`
}

func (s *Server) listRisks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state, err := types.ParseRiskState(r.URL.Query().Get("state"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	risks, err := s.uc.Risk.ListVisibleRisks(ctx, viewerFromContext(ctx), model.RiskFilter{
		Department: r.URL.Query().Get("department"),
		State:      state,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, toRiskResponses(risks))
}

func (s *Server) createRisk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req createRiskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	risk, err := s.uc.Risk.CreateRisk(ctx, input, viewerFromContext(ctx))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusCreated, toRiskResponse(risk))
}

func (s *Server) getRisk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	risk, err := s.uc.Risk.GetRisk(ctx, viewerFromContext(ctx), model.RiskID(chi.URLParam(r, "riskID")))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, toRiskResponse(risk))
}

func (s *Server) updateRisk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer := viewerFromContext(ctx)
	id := model.RiskID(chi.URLParam(r, "riskID"))

	var req updateRiskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if _, err := s.uc.Risk.GetRisk(ctx, viewer, id); err != nil {
		writeError(ctx, w, err)
		return
	}
	risk, err := s.uc.Risk.UpdateRisk(ctx, id, patch, viewer.ID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, toRiskResponse(risk))
}

func (s *Server) deleteRisk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := model.RiskID(chi.URLParam(r, "riskID"))

	cascade := false
	if v := r.URL.Query().Get("cascade"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			writeError(ctx, w, goerr.Wrap(model.ErrValidation, "invalid cascade parameter", goerr.V("cascade", v)))
			return
		}
		cascade = parsed
	}

	if _, err := s.uc.Risk.GetRisk(ctx, viewerFromContext(ctx), id); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := s.uc.Risk.DeleteRisk(ctx, id, cascade); err != nil {
		writeError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) approveRisk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	risk, err := s.uc.Risk.ApproveRisk(ctx, model.RiskID(chi.URLParam(r, "riskID")), viewerFromContext(ctx))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, toRiskResponse(risk))
}

func (s *Server) listRiskHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entries, err := s.uc.Risk.ListHistory(ctx, viewerFromContext(ctx), model.RiskID(chi.URLParam(r, "riskID")))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	resp := make([]historyResponse, len(entries))
	for i, e := range entries {
		resp[i] = historyResponse{
			ID:              string(e.ID),
			RiskID:          string(e.RiskID),
			ChangedAt:       e.ChangedAt,
			ChangedByUserID: string(e.ChangedByUserID),
			FieldName:       e.FieldName,
			OldValue:        e.OldValue,
			NewValue:        e.NewValue,
		}
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}
