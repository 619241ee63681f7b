package logging

import (
	"net/http"

	"www.velocidex.com/golang/seclink/config"
)

// Record the status of the request so we can log it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// GetLoggingHandler logs every request served by the monitoring
// endpoint at debug level.
func GetLoggingHandler(config_obj *config.Config,
	component *string) func(http.Handler) http.Handler {
	logger := GetLogger(config_obj, component)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{w, 200}
			defer func() {
				logger.Debug(
					"%s %s %s %s %d",
					r.Method,
					r.URL.Path,
					r.RemoteAddr,
					r.UserAgent(),
					rec.status)
			}()
			next.ServeHTTP(rec, r)
		})
	}
}
