// Package mongo persists orders in a MongoDB collection.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"lessonshop/pkg/order"
)

// Collection is the default collection name for orders.
const Collection = "orders"

type cartItem struct {
	LessonID string  `bson:"lessonId,omitempty"`
	Item     string  `bson:"item,omitempty"`
	Subject  string  `bson:"subject,omitempty"`
	Price    float64 `bson:"price"`
	Quantity int     `bson:"quantity"`
}

type document struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	FirstName      string             `bson:"firstName"`
	LastName       string             `bson:"lastName"`
	Address        string             `bson:"address"`
	City           string             `bson:"city"`
	State          string             `bson:"state"`
	Zip            string             `bson:"zip"`
	Phone          string             `bson:"phone"`
	SendGift       *bool              `bson:"sendGift,omitempty"`
	GiftPhone      *string            `bson:"giftPhone,omitempty"`
	DeliveryMethod *string            `bson:"deliveryMethod,omitempty"`
	Cart           []cartItem         `bson:"cart"`
	TotalPrice     float64            `bson:"totalPrice"`
	CreatedAt      time.Time          `bson:"createdAt"`
}

func toDocument(o order.Order) document {
	d := document{
		FirstName:      o.FirstName,
		LastName:       o.LastName,
		Address:        o.Address,
		City:           o.City,
		State:          o.State,
		Zip:            o.Zip,
		Phone:          o.Phone,
		SendGift:       o.SendGift,
		GiftPhone:      o.GiftPhone,
		DeliveryMethod: o.DeliveryMethod,
		Cart:           make([]cartItem, 0, len(o.Cart)),
		TotalPrice:     o.TotalPrice,
		CreatedAt:      o.CreatedAt,
	}
	for _, it := range o.Cart {
		d.Cart = append(d.Cart, cartItem(it))
	}
	return d
}

func (d document) order() order.Order {
	o := order.Order{
		ID:             d.ID.Hex(),
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		Address:        d.Address,
		City:           d.City,
		State:          d.State,
		Zip:            d.Zip,
		Phone:          d.Phone,
		SendGift:       d.SendGift,
		GiftPhone:      d.GiftPhone,
		DeliveryMethod: d.DeliveryMethod,
		Cart:           make([]order.CartItem, 0, len(d.Cart)),
		TotalPrice:     d.TotalPrice,
		CreatedAt:      d.CreatedAt,
	}
	for _, it := range d.Cart {
		o.Cart = append(o.Cart, order.CartItem(it))
	}
	return o
}

// Repository inserts and lists order documents.
type Repository struct {
	coll *mongo.Collection
}

// New creates a repository over the orders collection of db.
func New(db *mongo.Database) *Repository {
	return &Repository{coll: db.Collection(Collection)}
}

// Create inserts o and returns the generated ObjectID in hex.
func (r *Repository) Create(ctx context.Context, o order.Order) (string, error) {
	res, err := r.coll.InsertOne(ctx, toDocument(o))
	if err != nil {
		return "", fmt.Errorf("insert order: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert order: unexpected id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// List fetches every order document.
func (r *Repository) List(ctx context.Context) ([]order.Order, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	var docs []document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	out := make([]order.Order, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.order())
	}
	return out, nil
}
