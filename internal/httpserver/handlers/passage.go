package handlers

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/verse/internal/dispatch"
	"github.com/MrSnakeDoc/verse/internal/httpserver/deps"
)

// Passage answers GET /api/passage?q=Мф.+5:3 as if q had been sent as a chat message.
func Passage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			writeError(w, http.StatusBadRequest, "missing q parameter")
			return
		}

		reply := d.Dispatcher.Dispatch(r.Context(), dispatch.Request{Surface: dispatch.SurfaceMessage, Text: query})
		writeJSON(w, http.StatusOK, reply)
	}
}
