package lesson_test

import (
	"context"
	"errors"
	"testing"

	"lessonshop/pkg/lesson"
	"lessonshop/pkg/lesson/memory"
)

func seed() *memory.Repository {
	return memory.New(
		lesson.Lesson{ID: "a", Subject: "Math", Location: "Hendon", Price: 100, Spaces: 5},
		lesson.Lesson{ID: "b", Subject: "English", Location: "Colindale", Price: 80, Spaces: 10},
		lesson.Lesson{ID: "c", Subject: "Applied Mathematics", Location: "Room 10", Price: 90, Spaces: 3},
		lesson.Lesson{ID: "d", Subject: "Music", Location: "Brent Cross", Price: 10, Spaces: 7},
		lesson.Lesson{ID: "e", Subject: "Art", Location: "Golders Green", Price: 10, Spaces: 10},
	)
}

func ids(ls []lesson.Lesson) []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.ID)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"text only, case insensitive", "math", []string{"a", "c"}},
		{"location match", "colindale", []string{"b"}},
		{"text then numeric, no duplicates", "10", []string{"c", "b", "d", "e"}},
		{"numeric price", "100", []string{"a"}},
		{"decimal equal to integer spaces", "7.0", []string{"d"}},
		{"no match", "chemistry", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lesson.Search(context.Background(), seed(), tt.query)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			if got == nil {
				t.Fatal("expected non-nil result")
			}
			if !equal(ids(got), tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, ids(got))
			}
		})
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	for _, q := range []string{"", "   "} {
		if _, err := lesson.Search(context.Background(), seed(), q); !errors.Is(err, lesson.ErrEmptyQuery) {
			t.Fatalf("query %q: expected ErrEmptyQuery, got %v", q, err)
		}
	}
}

type failingRepo struct{ memory.Repository }

func (*failingRepo) List(context.Context) ([]lesson.Lesson, error) {
	return nil, errors.New("connection reset")
}

func TestSearchNumericListFailure(t *testing.T) {
	repo := &failingRepo{}
	if _, err := lesson.Search(context.Background(), repo, "math"); err != nil {
		t.Fatalf("non-numeric query must not list: %v", err)
	}
	if _, err := lesson.Search(context.Background(), repo, "10"); err == nil {
		t.Fatal("expected error from numeric branch")
	}
}

func TestMerge(t *testing.T) {
	a := lesson.Lesson{ID: "1"}
	b := lesson.Lesson{ID: "2"}
	c := lesson.Lesson{ID: "3"}
	got := lesson.Merge([]lesson.Lesson{b, a}, []lesson.Lesson{a, c, b})
	if !equal(ids(got), []string{"2", "1", "3"}) {
		t.Fatalf("unexpected merge order: %v", ids(got))
	}
	if got := lesson.Merge(nil, nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestValidateSpaces(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	tests := []struct {
		name string
		in   *float64
		want int
		ok   bool
	}{
		{"missing", nil, 0, false},
		{"negative", f(-1), 0, false},
		{"fractional", f(1.5), 0, false},
		{"zero", f(0), 0, true},
		{"positive", f(4), 4, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lesson.ValidateSpaces(tt.in)
			if tt.ok != (err == nil) {
				t.Fatalf("unexpected error: %v", err)
			}
			if err != nil && !errors.Is(err, lesson.ErrInvalidSpaces) {
				t.Fatalf("expected ErrInvalidSpaces, got %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}
