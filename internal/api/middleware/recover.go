package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"arroyo_seco_api/internal/common"

	"github.com/rs/zerolog"
)

// Recoverer converts panics into the standard 500 envelope. The stack trace
// is always logged but only serialized into the response in dev mode.
func Recoverer(logger zerolog.Logger, dev bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				stack := debug.Stack()
				logger.Error().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Interface("panic", rec).
					Bytes("stack", stack).
					Msg("panic recovered")

				var detail any
				if dev {
					detail = map[string]string{
						"panic": fmt.Sprint(rec),
						"stack": string(stack),
					}
				}
				common.RespondWithErrorDetail(w, common.NewInternalError("Internal server error", nil), detail)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
