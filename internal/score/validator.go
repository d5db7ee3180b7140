package score

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mauv0809/memorix-backend/internal/category"
)

// Validator checks a candidate game result before it is persisted. It is a
// pure check: nothing is written, and every rule runs regardless of the
// others so the caller gets all field errors at once.
type Validator struct {
	categories category.CategoryStore
}

// NewValidator creates a Validator backed by the given category store.
func NewValidator(categories category.CategoryStore) *Validator {
	return &Validator{categories: categories}
}

// Validate applies the field-range and cross-field plausibility rules to sub
// and resolves its category code. A nil FieldErrors result means the
// submission is valid and cat identifies the resolved category. The error
// return is reserved for store failures, never validation outcomes.
func (v *Validator) Validate(ctx context.Context, sub Submission, profileID string) (*category.Category, FieldErrors, error) {
	fieldErrs := FieldErrors{}

	if sub.Moves < MinMoves || sub.Moves > MaxMoves {
		fieldErrs.Add("moves", fmt.Sprintf("moves must be between %d and %d", MinMoves, MaxMoves))
	}
	if sub.TimeSeconds < MinTimeSeconds || sub.TimeSeconds > MaxTimeSeconds {
		fieldErrs.Add("time_seconds", fmt.Sprintf("time_seconds must be between %d and %d", MinTimeSeconds, MaxTimeSeconds))
	}
	if sub.Stars < MinStars || sub.Stars > MaxStars {
		fieldErrs.Add("stars", fmt.Sprintf("stars must be between %d and %d", MinStars, MaxStars))
	}

	if float64(sub.TimeSeconds) < float64(sub.Moves)*MinSecondsPerMove {
		fieldErrs.Add("time_seconds", "time too short for the number of moves")
	}
	if sub.Stars >= HighStarThreshold && sub.Moves > MaxMovesForHighStars {
		fieldErrs.Add("moves", "high star rating with excessive moves is unrealistic")
	}

	if profileID == "" {
		fieldErrs.Add("profile", "authenticated profile is required to save the score")
	}

	var cat *category.Category
	code := strings.TrimSpace(sub.CategoryCode)
	if code == "" {
		fieldErrs.Add("category", "category code is required")
	} else {
		resolved, err := v.categories.GetByCode(ctx, code)
		switch {
		case errors.Is(err, category.ErrNotFound):
			fieldErrs.Add("category", fmt.Sprintf("Category '%s' not found", code))
		case err != nil:
			return nil, nil, fmt.Errorf("category lookup failed: %w", err)
		default:
			cat = resolved
		}
	}

	if fieldErrs.HasErrors() {
		return nil, fieldErrs, nil
	}
	return cat, nil, nil
}
