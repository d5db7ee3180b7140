package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/memorix-backend/internal/score"
	"github.com/mauv0809/memorix-backend/internal/timeutil"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// respondDetail writes the standard {"detail": "..."} error shape.
func respondDetail(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]string{"detail": detail})
}

// decorateScore fills in the humanized completion time on the payload.
func decorateScore(sc *score.Score) {
	sc.CompletedAgo = timeutil.ShortNaturalTime(sc.CompletedAt, time.Now().UTC())
}

func decorateScores(scores []score.Score) []score.Score {
	if scores == nil {
		return []score.Score{}
	}
	for i := range scores {
		decorateScore(&scores[i])
	}
	return scores
}
