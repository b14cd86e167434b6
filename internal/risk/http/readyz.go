package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/creditrisk/internal/risk/classifier"
	"github.com/aussiebroadwan/creditrisk/internal/risk/store"
	"github.com/aussiebroadwan/creditrisk/pkg/httpx"
	"github.com/aussiebroadwan/creditrisk/pkg/jwtx"
	"github.com/aussiebroadwan/creditrisk/pkg/risksdk"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint returning service health status and checks for critical dependencies
//	@Description	Includes uptime, version, and status of the classifier, the session signer and the audit database
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	risksdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	risksdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	model classifier.Classifier,
	keys *jwtx.KeySet, // nil when authentication is disabled
	st store.Store, // nil when auditing is disabled
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &risksdk.HealthChecks{Classifier: "ok"}
		overallStatus := "ok"
		statusCode := http.StatusOK

		fail := func(check *string, msg string) {
			*check = "error: " + msg
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		if model == nil {
			fail(&checks.Classifier, "no model loaded")
		} else if err := classifier.AssertSchema(model.Schema()); err != nil {
			fail(&checks.Classifier, err.Error())
		}

		if keys != nil {
			checks.Signer = "ok"
			if !keys.IsReady() {
				fail(&checks.Signer, "no keys loaded")
			}
		}

		if st != nil {
			checks.Database = "ok"
			if err := st.Ping(r.Context()); err != nil {
				fail(&checks.Database, err.Error())
			}
		}

		response := risksdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		}
		httpx.WriteJSON(w, statusCode, response)
	}
}
