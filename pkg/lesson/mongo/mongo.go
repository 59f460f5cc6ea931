// Package mongo persists lessons in a MongoDB collection.
//
// Lessons are seeded outside the service, so documents are read as bson.M
// and only the fields the service works with are typed. Everything else is
// carried through in Lesson.Extra.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lessonshop/pkg/lesson"
)

// Collection is the default collection name for lessons.
const Collection = "lessons"

// fromDocument types the known fields of m. A field whose stored value has an
// unexpected type is kept raw in Extra instead of failing the read.
func fromDocument(m bson.M) lesson.Lesson {
	var l lesson.Lesson
	extra := map[string]any{}
	for k, v := range m {
		switch k {
		case "_id":
			id, native := formatID(v)
			l.ID = id
			if !native {
				extra[k] = v
			}
		case "subject", "location", "image":
			s, ok := v.(string)
			if !ok {
				extra[k] = v
				continue
			}
			switch k {
			case "subject":
				l.Subject = s
			case "location":
				l.Location = s
			default:
				l.Image = s
			}
		case "price":
			n, ok := number(v)
			if !ok {
				extra[k] = v
				continue
			}
			l.Price = n
		case "spaces":
			n, ok := number(v)
			if !ok || n < 0 || n != math.Trunc(n) {
				extra[k] = v
				continue
			}
			l.Spaces = int(n)
		default:
			extra[k] = v
		}
	}
	if len(extra) > 0 {
		l.Extra = extra
	}
	return l
}

// formatID renders a stored _id as the opaque string used in paths. native is
// false when the JSON form must keep the raw value, e.g. numeric ids.
func formatID(v any) (id string, native bool) {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex(), true
	case string:
		return t, true
	case int32:
		return strconv.FormatInt(int64(t), 10), false
	case int64:
		return strconv.FormatInt(t, 10), false
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), false
	default:
		return fmt.Sprint(v), false
	}
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}

// idFilter matches every stored _id the path id could have been rendered from.
func idFilter(id string) bson.M {
	candidates := bson.A{id}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		candidates = append(candidates, oid)
	}
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		candidates = append(candidates, n)
	} else if f, err := strconv.ParseFloat(id, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		candidates = append(candidates, f)
	}
	return bson.M{"_id": bson.M{"$in": candidates}}
}

// Repository reads and updates lesson documents.
type Repository struct {
	coll *mongo.Collection
}

// New creates a repository over the lessons collection of db.
func New(db *mongo.Database) *Repository {
	return &Repository{coll: db.Collection(Collection)}
}

// List fetches every lesson document.
func (r *Repository) List(ctx context.Context) ([]lesson.Lesson, error) {
	return r.find(ctx, bson.M{})
}

// MatchText fetches lessons whose subject or location contains q, ignoring case.
func (r *Repository) MatchText(ctx context.Context, q string) ([]lesson.Lesson, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"subject": pattern},
		bson.M{"location": pattern},
	}}
	return r.find(ctx, filter)
}

// SetSpaces overwrites the spaces field and returns the updated document.
func (r *Repository) SetSpaces(ctx context.Context, id string, spaces int) (lesson.Lesson, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc bson.M
	err := r.coll.FindOneAndUpdate(ctx,
		idFilter(id),
		bson.M{"$set": bson.M{"spaces": spaces}},
		opts,
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return lesson.Lesson{}, lesson.ErrNotFound
	}
	if err != nil {
		return lesson.Lesson{}, fmt.Errorf("update lesson %s: %w", id, err)
	}
	return fromDocument(doc), nil
}

func (r *Repository) find(ctx context.Context, filter any) ([]lesson.Lesson, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find lessons: %w", err)
	}
	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode lessons: %w", err)
	}
	out := make([]lesson.Lesson, 0, len(docs))
	for _, d := range docs {
		out = append(out, fromDocument(d))
	}
	return out, nil
}
