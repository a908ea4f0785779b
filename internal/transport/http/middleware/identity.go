package middleware

import (
	"context"
	"net/http"
	"strings"

	"hearth/internal/requestctx"
	"hearth/internal/transport/http/api"
)

// Identity trusts the X-User-ID header set by the authenticating gateway in
// front of this service. Requests without it are rejected.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ownerID := strings.TrimSpace(r.Header.Get("X-User-ID"))
		if ownerID == "" {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "missing user identity", GetRequestID(r.Context()))
			return
		}
		ctx := requestctx.WithOwnerID(r.Context(), ownerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetOwnerID(ctx context.Context) string {
	return requestctx.GetOwnerID(ctx)
}
