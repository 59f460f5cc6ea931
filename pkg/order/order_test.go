package order

import (
	"errors"
	"testing"
	"time"
)

func valid() Order {
	return Order{
		FirstName: "John",
		LastName:  "Smith Jones",
		Phone:     "07123456789",
		Cart:      []CartItem{{LessonID: "l1", Price: 10, Quantity: 2}},
	}
}

func TestValidate(t *testing.T) {
	yes, no := true, false
	digits, letters, empty := "0712", "abc", ""

	tests := []struct {
		name   string
		modify func(*Order)
		want   error
	}{
		{"valid", func(*Order) {}, nil},
		{"missing first name", func(o *Order) { o.FirstName = "" }, ErrMissingFields},
		{"missing last name", func(o *Order) { o.LastName = "" }, ErrMissingFields},
		{"missing phone", func(o *Order) { o.Phone = "" }, ErrMissingFields},
		{"missing phone wins over empty cart", func(o *Order) { o.Phone = ""; o.Cart = nil }, ErrMissingFields},
		{"empty cart", func(o *Order) { o.Cart = []CartItem{} }, ErrEmptyCart},
		{"empty cart wins over bad name", func(o *Order) { o.Cart = nil; o.FirstName = "John1" }, ErrEmptyCart},
		{"empty cart wins over bad phone", func(o *Order) { o.Cart = nil; o.Phone = "abc" }, ErrEmptyCart},
		{"digit in first name", func(o *Order) { o.FirstName = "John1" }, ErrInvalidName},
		{"symbol in last name", func(o *Order) { o.LastName = "O'Brien" }, ErrInvalidName},
		{"bad name wins over bad phone", func(o *Order) { o.FirstName = "J0hn"; o.Phone = "x" }, ErrInvalidName},
		{"non-digit phone", func(o *Order) { o.Phone = "+44 7123" }, ErrInvalidPhone},
		{"gift phone checked when gifting", func(o *Order) { o.SendGift = &yes; o.GiftPhone = &letters }, ErrInvalidGiftPhone},
		{"gift phone digits", func(o *Order) { o.SendGift = &yes; o.GiftPhone = &digits }, nil},
		{"gift phone ignored when not gifting", func(o *Order) { o.SendGift = &no; o.GiftPhone = &letters }, nil},
		{"gift phone ignored when send gift absent", func(o *Order) { o.GiftPhone = &letters }, nil},
		{"empty gift phone not validated", func(o *Order) { o.SendGift = &yes; o.GiftPhone = &empty }, nil},
		{"gifting without gift phone", func(o *Order) { o.SendGift = &yes }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := valid()
			tt.modify(&o)
			err := o.Validate()
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if tt.want != nil && !IsValidation(err) {
				t.Fatalf("IsValidation(%v) = false", err)
			}
		})
	}
}

func TestPrepare(t *testing.T) {
	o := valid()
	o.ID = "client-chosen"
	o.TotalPrice = 1
	o.Cart = []CartItem{{Item: "Math", Price: 10, Quantity: 2}, {Item: "Art", Price: 5, Quantity: 1}}
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))

	got, err := Prepare(o, now)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if got.TotalPrice != 25 {
		t.Fatalf("expected total 25, got %v", got.TotalPrice)
	}
	if got.ID != "" {
		t.Fatalf("expected client id to be dropped, got %q", got.ID)
	}
	if !got.CreatedAt.Equal(now) || got.CreatedAt.Location() != time.UTC {
		t.Fatalf("unexpected createdAt: %v", got.CreatedAt)
	}
}

func TestPrepareRejects(t *testing.T) {
	o := valid()
	o.FirstName = "John1"
	if _, err := Prepare(o, time.Now()); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}

func TestIsValidation(t *testing.T) {
	if IsValidation(errors.New("boom")) || IsValidation(nil) {
		t.Fatal("unexpected validation classification")
	}
}
