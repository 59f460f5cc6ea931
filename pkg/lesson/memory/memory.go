// Package memory implements an in-memory lesson repository.
package memory

import (
	"context"
	"strings"
	"sync"

	"lessonshop/pkg/lesson"
)

// Repository provides an in-memory implementation of lesson.Repository.
// Lessons keep the order in which they were seeded.
type Repository struct {
	mu      sync.RWMutex
	lessons []lesson.Lesson
	index   map[string]int
}

// New creates a repository seeded with the given lessons.
func New(seed ...lesson.Lesson) *Repository {
	r := &Repository{index: make(map[string]int, len(seed))}
	for _, l := range seed {
		if i, ok := r.index[l.ID]; ok {
			r.lessons[i] = l
			continue
		}
		r.index[l.ID] = len(r.lessons)
		r.lessons = append(r.lessons, l)
	}
	return r
}

// List returns all lessons.
func (r *Repository) List(ctx context.Context) ([]lesson.Lesson, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]lesson.Lesson, len(r.lessons))
	copy(out, r.lessons)
	return out, nil
}

// MatchText returns lessons whose subject or location contains q.
func (r *Repository) MatchText(ctx context.Context, q string) ([]lesson.Lesson, error) {
	needle := strings.ToLower(q)
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []lesson.Lesson{}
	for _, l := range r.lessons {
		if strings.Contains(strings.ToLower(l.Subject), needle) ||
			strings.Contains(strings.ToLower(l.Location), needle) {
			out = append(out, l)
		}
	}
	return out, nil
}

// SetSpaces overwrites the seat count of a lesson.
func (r *Repository) SetSpaces(ctx context.Context, id string, spaces int) (lesson.Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[id]
	if !ok {
		return lesson.Lesson{}, lesson.ErrNotFound
	}
	r.lessons[i].Spaces = spaces
	return r.lessons[i], nil
}

// Ping always succeeds.
func (r *Repository) Ping(ctx context.Context) error { return nil }
