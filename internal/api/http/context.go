package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"nftflow-backend/internal/security"

	"github.com/gorilla/mux"
)

type contextKey string

const claimsKey contextKey = "claims"

// authMiddleware validates the bearer token and stashes the claims in the
// request context. Requests without a valid access token never reach a
// handler.
func authMiddleware(tokens security.TokenManager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
				return
			}
			claims, err := tokens.ValidateToken(token)
			if err != nil || claims.Type != security.TokenTypeAccess {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid token"})
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func callerID(r *http.Request) int32 {
	claims, _ := r.Context().Value(claimsKey).(*security.UserClaims)
	if claims == nil {
		return 0
	}
	return claims.UserID
}

func pathID(r *http.Request, name string) (int32, error) {
	v, err := strconv.ParseInt(mux.Vars(r)[name], 10, 32)
	return int32(v), err
}

func queryInt32(r *http.Request, name string, def int32) int32 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return def
	}
	return int32(v)
}

// pagination caps page size at 100 to keep list endpoints bounded.
func pagination(r *http.Request) (page, pageSize int32) {
	page = queryInt32(r, "page", 1)
	if page < 1 {
		page = 1
	}
	pageSize = queryInt32(r, "page_size", 20)
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
