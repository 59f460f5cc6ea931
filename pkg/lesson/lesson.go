package lesson

import (
	"context"
	"encoding/json"
	"errors"
	"math"
)

// Lesson represents a bookable offering with a mutable seat count.
type Lesson struct {
	ID       string  `json:"_id"`
	Subject  string  `json:"subject"`
	Location string  `json:"location"`
	Price    float64 `json:"price"`
	Spaces   int     `json:"spaces"`
	Image    string  `json:"image,omitempty"`

	// Extra holds stored fields the typed ones do not cover, and the raw
	// value of any typed field whose stored value had another type. It is
	// written back out unchanged and wins over the typed field of the same key.
	Extra map[string]any `json:"-"`
}

// MarshalJSON writes the typed fields followed by Extra.
func (l Lesson) MarshalJSON() ([]byte, error) {
	type fields Lesson
	if len(l.Extra) == 0 {
		return json.Marshal(fields(l))
	}
	m := map[string]any{
		"_id":      l.ID,
		"subject":  l.Subject,
		"location": l.Location,
		"price":    l.Price,
		"spaces":   l.Spaces,
	}
	if l.Image != "" {
		m["image"] = l.Image
	}
	for k, v := range l.Extra {
		m[k] = v
	}
	return json.Marshal(m)
}

// Raw reports whether key was stored with a value Extra carries in place of
// the typed field.
func (l Lesson) Raw(key string) bool {
	_, ok := l.Extra[key]
	return ok
}

// Repository defines behavior for reading lessons and adjusting their seats.
// Lessons are seeded outside the service; no create or delete exists.
type Repository interface {
	List(ctx context.Context) ([]Lesson, error)
	// MatchText returns lessons whose subject or location contains q,
	// ignoring case, in store order.
	MatchText(ctx context.Context, q string) ([]Lesson, error)
	// SetSpaces overwrites the seat count and returns the updated lesson.
	SetSpaces(ctx context.Context, id string, spaces int) (Lesson, error)
}

var (
	// ErrNotFound indicates the requested lesson does not exist.
	ErrNotFound = errors.New("lesson not found")
	// ErrInvalidSpaces indicates a missing, negative or fractional seat count.
	ErrInvalidSpaces = errors.New("invalid spaces value")
	// ErrEmptyQuery indicates a search without a query.
	ErrEmptyQuery = errors.New("search query is required")
)

// ValidateSpaces converts a decoded spaces value into a seat count.
func ValidateSpaces(v *float64) (int, error) {
	if v == nil || *v < 0 || *v != math.Trunc(*v) || *v > math.MaxInt32 {
		return 0, ErrInvalidSpaces
	}
	return int(*v), nil
}
