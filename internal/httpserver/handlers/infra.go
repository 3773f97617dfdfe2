package handlers

import (
	"context"
	"net/http"

	"github.com/MrSnakeDoc/verse/internal/httpserver/deps"
)

type componentStatus struct {
	OK         bool   `json:"ok"`
	Target     string `json:"target,omitempty"`
	Source     string `json:"source,omitempty"`
	LastReload string `json:"last_reload,omitempty"`
	Reloads    *int   `json:"reloads,omitempty"`
	Mode       string `json:"mode,omitempty"`
	Impact     string `json:"impact,omitempty"`
	Error      string `json:"error,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of every component the pipeline depends on.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		components := map[string]componentStatus{
			"store":   checkStore(ctx, d),
			"catalog": checkCatalog(d),
			"limiter": checkLimiter(ctx, d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Status:     overallStatus(components),
			Components: components,
		})
	}
}

// overallStatus is "critical" without a store, "degraded" when a side component fails.
func overallStatus(components map[string]componentStatus) string {
	if store, ok := components["store"]; ok && !store.OK {
		return "critical"
	}
	for _, c := range components {
		if !c.OK {
			return "degraded"
		}
	}
	return "ok"
}

func checkStore(ctx context.Context, d deps.Deps) componentStatus {
	status := componentStatus{OK: true, Target: d.Store.BaseURL()}
	if err := d.Store.Ping(ctx); err != nil {
		status.OK = false
		status.Impact = "lookups-unavailable"
		status.Error = err.Error()
	}
	return status
}

func checkCatalog(d deps.Deps) componentStatus {
	if d.Catalog == nil {
		return componentStatus{OK: true, Mode: "built-in"}
	}

	reloads := d.Catalog.Reloads()
	status := componentStatus{
		OK:         true,
		Source:     d.Catalog.Source(),
		LastReload: "never",
		Reloads:    &reloads,
		Mode:       "built-in",
	}
	if last := d.Catalog.LastReload(); !last.IsZero() {
		status.LastReload = last.Format("2006-01-02 15:04:05")
		status.Mode = "file"
	}
	return status
}

func checkLimiter(ctx context.Context, d deps.Deps) componentStatus {
	status := componentStatus{OK: true, Mode: d.LimiterMode}

	pinger, ok := d.Limiter.(interface{ Ping(context.Context) error })
	if !ok {
		return status
	}
	if err := pinger.Ping(ctx); err != nil {
		status.OK = false
		status.Impact = "rate-limiting-disabled"
		status.Error = err.Error()
	}
	return status
}
