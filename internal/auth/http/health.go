package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/tubetab/internal/auth/store"
	"github.com/aussiebroadwan/tubetab/pkg/authsdk"
	"github.com/aussiebroadwan/tubetab/pkg/httpx"
	"github.com/aussiebroadwan/tubetab/pkg/slogx"
)

const readinessTimeout = 2 * time.Second

// Health serves the liveness and readiness probes.
type Health struct {
	Started time.Time
	Version string
	Store   store.Store
}

func (h Health) report(status string, checks *authsdk.HealthChecks) authsdk.HealthResponse {
	return authsdk.HealthResponse{
		Status:  status,
		Uptime:  time.Since(h.Started).Round(time.Second).String(),
		Version: h.Version,
		Checks:  checks,
	}
}

// Livez godoc
//
//	@Summary		Liveness probe
//	@Description	Reports that the process is serving requests. Never touches the database.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func (h Health) Livez(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.report("ok", nil))
}

// Readyz godoc
//
//	@Summary		Readiness probe
//	@Description	Reports whether the credential store answers a ping within two seconds
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	authsdk.HealthResponse	"credential store unavailable"
//	@Router			/readyz [get].
func (h Health) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if err := h.Store.Ping(ctx); err != nil {
		// the probe caller only sees "unavailable"
		slogx.FromContext(ctx).Warn("readiness check failed", "err", err)
		httpx.WriteJSON(w, http.StatusServiceUnavailable,
			h.report("degraded", &authsdk.HealthChecks{Database: "unavailable"}))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.report("ok", &authsdk.HealthChecks{Database: "ok"}))
}
