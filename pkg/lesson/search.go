package lesson

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Search runs a text match against subject and location and, when q is a
// decimal number, adds every lesson whose price or spaces equals it. Text
// matches come first; numeric-only matches follow in list order.
func Search(ctx context.Context, repo Repository, q string) ([]Lesson, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, ErrEmptyQuery
	}

	text, err := repo.MatchText(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("match text: %w", err)
	}

	n, ok := parseNumber(q)
	if !ok {
		return Merge(text, nil), nil
	}

	all, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list for numeric match: %w", err)
	}
	var numeric []Lesson
	for _, l := range all {
		if (l.Price == n && !l.Raw("price")) || (float64(l.Spaces) == n && !l.Raw("spaces")) {
			numeric = append(numeric, l)
		}
	}
	return Merge(text, numeric), nil
}

// Merge appends extra to base, skipping lessons whose ID is already present.
// The result is never nil.
func Merge(base, extra []Lesson) []Lesson {
	out := make([]Lesson, 0, len(base)+len(extra))
	seen := make(map[string]struct{}, len(base)+len(extra))
	for _, group := range [][]Lesson{base, extra} {
		for _, l := range group {
			if _, dup := seen[l.ID]; dup {
				continue
			}
			seen[l.ID] = struct{}{}
			out = append(out, l)
		}
	}
	return out
}

func parseNumber(q string) (float64, bool) {
	n, err := strconv.ParseFloat(q, 64)
	if err != nil {
		return 0, false
	}
	// NaN and Inf parse but never equal a stored price or seat count.
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
