package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type AuthConfig struct {
	Enabled bool
	Secret  string
}

type subjectKey struct{}

var (
	errMissingAuthHeader = fmt.Errorf("missing authorization header")
	errInvalidToken      = fmt.Errorf("invalid bearer token")
)

// BearerAuth rejects requests without a valid HMAC signed bearer token. The
// token subject is placed in the request context for downstream handlers.
func BearerAuth(cfg AuthConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeUnauthorized(w, errMissingAuthHeader)
				return
			}
			raw := strings.TrimPrefix(header, "Bearer ")
			if raw == header {
				writeUnauthorized(w, errInvalidToken)
				return
			}
			token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				return []byte(cfg.Secret), nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !token.Valid {
				writeUnauthorized(w, errInvalidToken)
				return
			}
			subject, _ := token.Claims.GetSubject()
			ctx := context.WithValue(r.Context(), subjectKey{}, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SubjectFromContext returns the token subject set by BearerAuth.
func SubjectFromContext(ctx context.Context) string {
	subject, _ := ctx.Value(subjectKey{}).(string)
	return subject
}

func writeUnauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"Message": err.Error()})
}
