package middleware

import (
	"context"
	"net/http"
	"strings"
)

// Headers set by hosted deployments and official clients. They are
// informational; the server records them but attaches no behavior.
const (
	HeaderCloud         = "x-mastra-cloud"
	HeaderClientType    = "x-mastra-client-type"
	HeaderDevPlayground = "x-mastra-dev-playground"
)

type clientInfoKey struct{}

// ClientInfo carries the recognized inbound header signals for a request.
type ClientInfo struct {
	Cloud         bool
	ClientType    string
	DevPlayground bool
}

// ClientHeaders parses the recognized headers into the request context.
func ClientHeaders() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info := ClientInfo{
				Cloud:         isTruthy(r.Header.Get(HeaderCloud)),
				ClientType:    r.Header.Get(HeaderClientType),
				DevPlayground: isTruthy(r.Header.Get(HeaderDevPlayground)),
			}
			ctx := context.WithValue(r.Context(), clientInfoKey{}, info)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClientInfoFromContext returns the parsed header signals, zero valued when
// the middleware did not run.
func ClientInfoFromContext(ctx context.Context) ClientInfo {
	info, _ := ctx.Value(clientInfoKey{}).(ClientInfo)
	return info
}

func isTruthy(value string) bool {
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	}
	return false
}
