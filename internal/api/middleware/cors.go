package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// Session cookies are sent cross-origin by the storefront, so credentials must
// be allowed and the origin list can never contain "*".
var (
	corsMethods = []string{
		http.MethodGet, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions,
	}
	corsHeaders = []string{"Accept", "Authorization", "Content-Type", RequestIDHeader}
	devOrigins  = []string{"http://localhost:3000", "http://localhost:5173"}
)

func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   corsMethods,
		AllowedHeaders:   corsHeaders,
		ExposedHeaders:   []string{RequestIDHeader, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           600,
	})
}

// DefaultCORS accepts a comma separated FRONTEND_URL. When any entry points at
// a local host the usual dev server ports are allowed too.
func DefaultCORS(frontendURL string) func(http.Handler) http.Handler {
	return CORS(frontendOrigins(frontendURL))
}

func frontendOrigins(frontendURL string) []string {
	var origins []string
	local := false
	for _, o := range strings.Split(frontendURL, ",") {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" || o == "*" {
			continue
		}
		origins = append(origins, o)
		if strings.Contains(o, "://localhost") || strings.Contains(o, "://127.0.0.1") {
			local = true
		}
	}
	if local {
		for _, d := range devOrigins {
			if !contains(origins, d) {
				origins = append(origins, d)
			}
		}
	}
	return origins
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
