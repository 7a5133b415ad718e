package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
)

type ownerResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toOwnerResponse(o *model.Owner) ownerResponse {
	return ownerResponse{
		ID:         string(o.ID),
		Name:       o.Name,
		Department: o.Department,
		CreatedAt:  o.CreatedAt,
	}
}

type createOwnerRequest struct {
	Name       string `json:"name"`
	Department string `json:"department"`
}

func (s *Server) listOwners(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owners, err := s.uc.Owner.ListVisibleOwners(ctx, viewerFromContext(ctx))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	resp := make([]ownerResponse, len(owners))
	for i, o := range owners {
		resp[i] = toOwnerResponse(o)
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

// createOwner creates an owner. Viewers bound to a department always create
// owners of their own department.
func (s *Server) createOwner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer := viewerFromContext(ctx)

	var req createOwnerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	department := req.Department
	if viewer.Role.RequiresDepartment() {
		department = viewer.Department
	}

	owner, err := s.uc.Owner.CreateOwner(ctx, req.Name, department)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusCreated, toOwnerResponse(owner))
}

func (s *Server) deleteOwner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer := viewerFromContext(ctx)

	if err := s.uc.Owner.DeleteOwner(ctx, model.OwnerID(chi.URLParam(r, "ownerID")), viewer); err != nil {
		writeError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
