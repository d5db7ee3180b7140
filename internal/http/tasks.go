package http

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/memorix-backend/internal/scheduler"
)

func (s *Server) UpdateLeaderboardTaskHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received update leaderboard message", "body", string(bodyBytes))
		// Decode the push subscription wrapper JSON to get at `data`.
		var pubsubMsg struct {
			Subscription string `json:"subscription"`
			Message      struct {
				Data string `json:"data"` // base64-encoded message payload
			} `json:"message"`
		}

		if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		// Decode base64 to raw MessagePack bytes
		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}
		task := scheduler.RecomputeLeaderboard{}
		if err := s.pubsub.ProcessMessage(rawData, &task); err != nil {
			log.Error("Failed to decode task payload", "error", err)
			http.Error(w, "Invalid task payload", http.StatusBadRequest)
			return
		}
		// A non-2xx here makes Pub/Sub redeliver the message, which is what
		// we want for transient recompute failures.
		if err := s.Engine.Recompute(r.Context(), task.CategoryID, s.Cfg.Leaderboard.TopCount); err != nil {
			log.Error("Failed to recompute leaderboard", "error", err, "categoryID", task.CategoryID)
			http.Error(w, "Failed to recompute leaderboard", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}
