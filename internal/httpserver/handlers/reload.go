package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/verse/internal/httpserver/deps"
	"github.com/MrSnakeDoc/verse/internal/logger"
	"github.com/MrSnakeDoc/verse/internal/utils"
)

// Reload triggers a manual reload of the message catalogue
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientIP := utils.ClientIP(r, d.TrustProxy)

		if d.ReloadTrigger == nil {
			w.WriteHeader(http.StatusConflict)
			if _, err := w.Write([]byte("ℹ️ No messages file configured, nothing to reload\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
			return
		}

		select {
		case d.ReloadTrigger <- struct{}{}:
			d.Logger.Info("manual messages reload triggered via endpoint",
				logger.String("client_ip", clientIP))
			w.WriteHeader(http.StatusAccepted)
			if _, err := w.Write([]byte("✅ Reload triggered successfully\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
		default:
			d.Logger.Warn("messages reload already in progress",
				logger.String("client_ip", clientIP))
			w.WriteHeader(http.StatusTooManyRequests)
			if _, err := w.Write([]byte("⏳ Reload already in progress, please wait\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
		}
	}
}
