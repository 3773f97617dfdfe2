package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/verse/internal/dispatch"
	"github.com/MrSnakeDoc/verse/internal/httpserver/deps"
	"github.com/MrSnakeDoc/verse/internal/logger"
)

// maxUpdateBytes bounds the JSON body of POST /api/updates.
const maxUpdateBytes = 16 << 10

type updateRequest struct {
	Surface string `json:"surface"`
	Text    string `json:"text"`
}

// Updates handles one chat update: {"surface":"message"|"inline","text":"..."}.
// The reply always comes back with 200, failures included, as the chat user would see it.
func Updates(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUpdateBytes)

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var in updateRequest
		if err := dec.Decode(&in); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				writeError(w, http.StatusRequestEntityTooLarge, "update too large")
				return
			}
			d.Logger.Debug("invalid update body", logger.Error(err))
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		surface, err := dispatch.ParseSurface(in.Surface)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		reply := d.Dispatcher.Dispatch(r.Context(), dispatch.Request{Surface: surface, Text: in.Text})
		writeJSON(w, http.StatusOK, reply)
	}
}
