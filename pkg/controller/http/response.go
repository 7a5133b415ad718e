package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
	"github.com/secmon-lab/riskledger/pkg/utils/errutil"
	"github.com/secmon-lab/riskledger/pkg/utils/logging"
	"github.com/secmon-lab/riskledger/pkg/utils/safe"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

var kindStatus = map[model.ErrorKind]int{
	model.ErrorKindValidation:           http.StatusBadRequest,
	model.ErrorKindPermissionDenied:     http.StatusForbidden,
	model.ErrorKindNotFound:             http.StatusNotFound,
	model.ErrorKindConflict:             http.StatusConflict,
	model.ErrorKindReferentialIntegrity: http.StatusConflict,
	model.ErrorKindStoreUnavailable:     http.StatusServiceUnavailable,
}

// statusOf maps an error to its HTTP status
func statusOf(err error) int {
	if status, ok := kindStatus[model.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(ctx, w, data)
}

// writeError renders err as JSON. Server side failures go through errutil so
// that they are logged and reported.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusOf(err)
	kind := model.KindOf(err)

	if status >= http.StatusInternalServerError {
		_ = errutil.Handle(ctx, err, "request failed")
		writeJSON(ctx, w, status, errorResponse{Error: http.StatusText(status), Kind: string(kind)})
		return
	}

	logging.From(ctx).Info("request rejected", "status", status, "error", err.Error())
	writeJSON(ctx, w, status, errorResponse{Error: err.Error(), Kind: string(kind)})
}

func writeErrorStatus(w http.ResponseWriter, status int, msg string) {
	data, _ := json.Marshal(errorResponse{Error: msg})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// decodeJSON reads the request body into v. Malformed bodies are validation errors.
func decodeJSON(r *http.Request, v any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return goerr.Wrap(model.ErrValidation, "invalid request body", goerr.V("error", err.Error()))
	}
	return nil
}
