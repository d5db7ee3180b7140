package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/memorix-backend/internal/category"
	"github.com/mauv0809/memorix-backend/internal/leaderboard"
	"github.com/mauv0809/memorix-backend/internal/ownable"
	"github.com/mauv0809/memorix-backend/internal/score"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ListCategoriesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := s.Categories.All(r.Context())
		if err != nil {
			log.Error("Failed to get categories", "error", err)
			respondDetail(w, http.StatusInternalServerError, "Failed to get categories.")
			return
		}
		if categories == nil {
			categories = []category.Category{}
		}
		respondJSON(w, http.StatusOK, categories)
	}
}

func (s *Server) SubmitScoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sub score.Submission
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			respondDetail(w, http.StatusBadRequest, "Invalid JSON.")
			return
		}

		p := profileFromContext(r)
		cat, fieldErrs, err := s.Validator.Validate(r.Context(), sub, p.ID)
		if err != nil {
			log.Error("Score validation failed", "error", err)
			respondDetail(w, http.StatusInternalServerError, "Failed to validate score.")
			return
		}
		if fieldErrs.HasErrors() {
			s.Metrics.IncScoresRejected()
			// An unknown category on an otherwise valid payload is a
			// not-found, not a validation failure.
			if msgs, ok := fieldErrs["category"]; ok && len(fieldErrs) == 1 && strings.Contains(msgs[0], "not found") {
				respondDetail(w, http.StatusNotFound, msgs[0])
				return
			}
			respondJSON(w, http.StatusBadRequest, fieldErrs)
			return
		}

		sc, created, err := s.Scores.Submit(r.Context(), p.ID, cat.ID, sub.Moves, sub.TimeSeconds, sub.Stars)
		if err != nil {
			log.Error("Failed to submit score", "error", err)
			respondDetail(w, http.StatusInternalServerError, "Failed to save score.")
			return
		}
		s.Metrics.IncScoresSubmitted()
		decorateScore(sc)

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		respondJSON(w, status, sc)
	}
}

func (s *Server) ListScoresHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := profileFromContext(r)

		var categoryID *int64
		if code := r.URL.Query().Get("category"); code != "" {
			cat, err := s.Categories.GetByCode(r.Context(), code)
			if errors.Is(err, category.ErrNotFound) {
				respondDetail(w, http.StatusNotFound, "Category not found.")
				return
			}
			if err != nil {
				log.Error("Failed to resolve category", "error", err)
				respondDetail(w, http.StatusInternalServerError, "Failed to get scores.")
				return
			}
			categoryID = &cat.ID
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

		scores, err := s.Scores.List(r.Context(), p.ID, categoryID, limit, offset)
		if err != nil {
			log.Error("Failed to get scores", "error", err)
			respondDetail(w, http.StatusInternalServerError, "Failed to get scores.")
			return
		}
		respondJSON(w, http.StatusOK, decorateScores(scores))
	}
}

func (s *Server) BestScoresHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := profileFromContext(r)
		scores, err := s.Scores.Best(r.Context(), p.ID)
		if err != nil {
			log.Error("Failed to get best scores", "error", err)
			respondDetail(w, http.StatusInternalServerError, "Failed to get best scores.")
			return
		}
		respondJSON(w, http.StatusOK, decorateScores(scores))
	}
}

func (s *Server) RecentScoresHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := profileFromContext(r)
		scores, err := s.Scores.Recent(r.Context(), p.ID)
		if err != nil {
			log.Error("Failed to get recent scores", "error", err)
			respondDetail(w, http.StatusInternalServerError, "Failed to get recent scores.")
			return
		}
		respondJSON(w, http.StatusOK, decorateScores(scores))
	}
}

func (s *Server) GetScoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := profileFromContext(r)
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			respondDetail(w, http.StatusNotFound, "Score not found.")
			return
		}
		sc, err := s.Scores.Get(r.Context(), id, p.ID)
		if errors.Is(err, score.ErrNotFound) {
			respondDetail(w, http.StatusNotFound, "Score not found.")
			return
		}
		if err != nil {
			log.Error("Failed to get score", "error", err, "id", id)
			respondDetail(w, http.StatusInternalServerError, "Failed to get score.")
			return
		}
		decorateScore(sc)
		respondJSON(w, http.StatusOK, sc)
	}
}

func (s *Server) DeleteScoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := profileFromContext(r)
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			respondDetail(w, http.StatusNotFound, "Score not found.")
			return
		}
		err = s.Scores.Delete(r.Context(), id, p.ID)
		if errors.Is(err, score.ErrNotFound) {
			respondDetail(w, http.StatusNotFound, "Score not found.")
			return
		}
		if err != nil {
			log.Error("Failed to delete score", "error", err, "id", id)
			respondDetail(w, http.StatusInternalServerError, "Failed to delete score.")
			return
		}
		s.Metrics.AddScoresDeleted(1)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) ClearCategoryScoresHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := profileFromContext(r)
		cat, err := s.Categories.GetByCode(r.Context(), r.PathValue("code"))
		if errors.Is(err, category.ErrNotFound) {
			respondDetail(w, http.StatusNotFound, "Category not found.")
			return
		}
		if err != nil {
			log.Error("Failed to resolve category", "error", err)
			respondDetail(w, http.StatusInternalServerError, "Failed to clear scores.")
			return
		}

		deleted, err := s.Scores.DeleteByCategory(r.Context(), p.ID, cat.ID)
		if errors.Is(err, score.ErrNotFound) {
			respondDetail(w, http.StatusNotFound, "No scores found for this category.")
			return
		}
		if err != nil {
			log.Error("Failed to clear category scores", "error", err)
			respondDetail(w, http.StatusInternalServerError, "Failed to clear scores.")
			return
		}
		s.Metrics.AddScoresDeleted(deleted)
		respondDetail(w, http.StatusOK, fmt.Sprintf("Successfully deleted %d scores for %s.", deleted, cat.Name))
	}
}

func (s *Server) ClearAllScoresHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := profileFromContext(r)
		deleted, err := s.Scores.DeleteAll(r.Context(), p.ID)
		if errors.Is(err, score.ErrNotFound) {
			respondDetail(w, http.StatusNotFound, "No scores found to delete.")
			return
		}
		if err != nil {
			log.Error("Failed to clear scores", "error", err)
			respondDetail(w, http.StatusInternalServerError, "Failed to clear scores.")
			return
		}
		s.Metrics.AddScoresDeleted(deleted)
		respondDetail(w, http.StatusOK, fmt.Sprintf("Successfully deleted all %d scores.", deleted))
	}
}

func (s *Server) TopPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		entries, err := s.Leaderboard.TopPlayers(r.Context(), limit)
		if err != nil {
			log.Error("Failed to get top players", "error", err)
			respondDetail(w, http.StatusInternalServerError, "Failed to get top players.")
			return
		}
		if entries == nil {
			entries = []leaderboard.Entry{}
		}
		respondJSON(w, http.StatusOK, entries)
	}
}

func (s *Server) CategoryTopHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		board, err := s.Leaderboard.CategoryTop(r.Context(), r.PathValue("code"), limit)
		if errors.Is(err, category.ErrNotFound) {
			respondDetail(w, http.StatusNotFound, "Category not found.")
			return
		}
		if err != nil {
			log.Error("Failed to get category leaderboard", "error", err)
			respondDetail(w, http.StatusInternalServerError, "Failed to get leaderboard.")
			return
		}
		if board.Leaderboard == nil {
			board.Leaderboard = []leaderboard.Entry{}
		}
		respondJSON(w, http.StatusOK, board)
	}
}

func (s *Server) UserRankHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := profileFromContext(r)
		rankings, err := s.Leaderboard.UserRank(r.Context(), p.ID)
		if err != nil {
			log.Error("Failed to get user rankings", "error", err)
			respondDetail(w, http.StatusInternalServerError, "Failed to get rankings.")
			return
		}
		if rankings == nil {
			rankings = []leaderboard.Ranking{}
		}
		respondJSON(w, http.StatusOK, leaderboard.UserRankings{
			Username: p.Username,
			Rankings: rankings,
		})
	}
}

func (s *Server) GetProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, profileFromContext(r))
	}
}

func (s *Server) UpdateProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := profileFromContext(r)
		target, err := s.Profiles.GetByID(r.Context(), r.PathValue("id"))
		if err != nil {
			respondDetail(w, http.StatusNotFound, "Profile not found.")
			return
		}
		if !ownable.OwnedBy(target, p.ID) {
			respondDetail(w, http.StatusForbidden, "You can only modify your own profile.")
			return
		}

		var body struct {
			Picture string `json:"picture"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondDetail(w, http.StatusBadRequest, "Invalid JSON.")
			return
		}
		if body.Picture == "" {
			respondJSON(w, http.StatusBadRequest, map[string][]string{"picture": {"picture is required"}})
			return
		}

		updated, err := s.Profiles.UpdatePicture(r.Context(), target.ID, body.Picture)
		if err != nil {
			log.Error("Failed to update profile", "error", err)
			respondDetail(w, http.StatusInternalServerError, "Failed to update profile.")
			return
		}
		respondJSON(w, http.StatusOK, updated)
	}
}
