package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"wastenot-api/pkg/apierror"
)

// Recovery turns a handler panic into a 500 with the standard error envelope
// instead of tearing down the connection. The stack goes to the log, not to
// the client.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				log.Printf("[Recovery] panic on %s %s (rid=%s): %v\n%s",
					r.Method, r.URL.Path, GetRequestID(r.Context()), v, debug.Stack())
				writeError(w, apierror.InternalError("internal server error"))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
