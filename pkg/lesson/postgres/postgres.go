package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"lessonshop/pkg/lesson"
)

// Schema creates the lessons table.
const Schema = `CREATE TABLE IF NOT EXISTS lessons (
	id TEXT PRIMARY KEY,
	subject TEXT NOT NULL,
	location TEXT NOT NULL,
	price DOUBLE PRECISION NOT NULL,
	spaces INT NOT NULL CHECK (spaces >= 0),
	image TEXT NOT NULL DEFAULT '',
	seq BIGSERIAL
)`

const columns = "id,subject,location,price,spaces,image"

// Repository persists lessons in PostgreSQL.
type Repository struct {
	db *sql.DB
}

// New creates a PostgreSQL repository.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// List fetches all lessons in insertion order.
func (r *Repository) List(ctx context.Context) ([]lesson.Lesson, error) {
	return r.query(ctx, "SELECT "+columns+" FROM lessons ORDER BY seq")
}

// MatchText fetches lessons whose subject or location contains q, ignoring case.
func (r *Repository) MatchText(ctx context.Context, q string) ([]lesson.Lesson, error) {
	pattern := "%" + escapeLike(q) + "%"
	return r.query(ctx, "SELECT "+columns+" FROM lessons WHERE subject ILIKE $1 OR location ILIKE $1 ORDER BY seq", pattern)
}

// SetSpaces overwrites the seat count of a lesson.
func (r *Repository) SetSpaces(ctx context.Context, id string, spaces int) (lesson.Lesson, error) {
	var l lesson.Lesson
	err := r.db.QueryRowContext(ctx,
		"UPDATE lessons SET spaces=$2 WHERE id=$1 RETURNING "+columns, id, spaces,
	).Scan(&l.ID, &l.Subject, &l.Location, &l.Price, &l.Spaces, &l.Image)
	if errors.Is(err, sql.ErrNoRows) {
		return lesson.Lesson{}, lesson.ErrNotFound
	}
	if err != nil {
		return lesson.Lesson{}, fmt.Errorf("update lesson %s: %w", id, err)
	}
	return l, nil
}

func (r *Repository) query(ctx context.Context, q string, args ...any) ([]lesson.Lesson, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query lessons: %w", err)
	}
	defer rows.Close()
	lessons := []lesson.Lesson{}
	for rows.Next() {
		var l lesson.Lesson
		if err := rows.Scan(&l.ID, &l.Subject, &l.Location, &l.Price, &l.Spaces, &l.Image); err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
