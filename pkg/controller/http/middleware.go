package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
)

type ctxViewerKey struct{}

// UserLookup resolves the viewer of a request
type UserLookup interface {
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
}

func contextWithViewer(ctx context.Context, viewer *model.User) context.Context {
	return context.WithValue(ctx, ctxViewerKey{}, viewer)
}

func viewerFromContext(ctx context.Context) *model.User {
	viewer, _ := ctx.Value(ctxViewerKey{}).(*model.User)
	return viewer
}

// viewerMiddleware loads the registered user named by UserHeader. Requests
// without a known user are rejected.
func viewerMiddleware(users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(UserHeader)
			if id == "" {
				writeErrorStatus(w, http.StatusUnauthorized, "authentication required")
				return
			}

			viewer, err := users.GetUser(r.Context(), model.UserID(id))
			if err != nil {
				if errors.Is(err, model.ErrNotFound) {
					writeErrorStatus(w, http.StatusUnauthorized, "unknown user")
					return
				}
				writeError(r.Context(), w, goerr.Wrap(err, "failed to resolve viewer", goerr.V(model.UserIDKey, id)))
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithViewer(r.Context(), viewer)))
		})
	}
}
