package order

import (
	"context"
	"errors"
	"regexp"
	"time"
)

// Order represents a customer purchase record. Orders are immutable once created.
type Order struct {
	ID             string     `json:"_id,omitempty"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Address        string     `json:"address,omitempty"`
	City           string     `json:"city,omitempty"`
	State          string     `json:"state,omitempty"`
	Zip            string     `json:"zip,omitempty"`
	Phone          string     `json:"phone"`
	SendGift       *bool      `json:"sendGift,omitempty"`
	GiftPhone      *string    `json:"giftPhone,omitempty"`
	DeliveryMethod *string    `json:"deliveryMethod,omitempty"`
	Cart           []CartItem `json:"cart"`
	TotalPrice     float64    `json:"totalPrice"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// CartItem is a single line of an order. Either LessonID or Item names the offering.
type CartItem struct {
	LessonID string  `json:"lessonId,omitempty"`
	Item     string  `json:"item,omitempty"`
	Subject  string  `json:"subject,omitempty"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Repository defines behavior for persisting orders.
type Repository interface {
	// Create stores o and returns the identifier the store assigned.
	Create(ctx context.Context, o Order) (string, error)
	List(ctx context.Context) ([]Order, error)
}

var (
	// ErrMissingFields indicates an order without a name or phone.
	ErrMissingFields = errors.New("firstName, lastName, and phone are required")
	// ErrEmptyCart indicates an order with nothing in it.
	ErrEmptyCart = errors.New("cart must contain at least one item")
	// ErrInvalidName indicates a name with characters other than letters and spaces.
	ErrInvalidName = errors.New("names must contain only letters and spaces")
	// ErrInvalidPhone indicates a phone number with non-digit characters.
	ErrInvalidPhone = errors.New("phone must contain only digits")
	// ErrInvalidGiftPhone indicates a gift phone number with non-digit characters.
	ErrInvalidGiftPhone = errors.New("gift phone must contain only digits")
)

var (
	// lettersOnly accepts ASCII letters and whitespace.
	lettersOnly = regexp.MustCompile(`^[A-Za-z\s]+$`)
	// digitsOnly accepts ASCII digits.
	digitsOnly = regexp.MustCompile(`^[0-9]+$`)
)

// Validate checks o in a fixed order and returns the first failure.
func (o Order) Validate() error {
	if o.FirstName == "" || o.LastName == "" || o.Phone == "" {
		return ErrMissingFields
	}
	if len(o.Cart) == 0 {
		return ErrEmptyCart
	}
	if !lettersOnly.MatchString(o.FirstName) || !lettersOnly.MatchString(o.LastName) {
		return ErrInvalidName
	}
	if !digitsOnly.MatchString(o.Phone) {
		return ErrInvalidPhone
	}
	if o.SendGift != nil && *o.SendGift && o.GiftPhone != nil && *o.GiftPhone != "" {
		if !digitsOnly.MatchString(*o.GiftPhone) {
			return ErrInvalidGiftPhone
		}
	}
	return nil
}

// Total returns the sum of price times quantity over the cart.
func (o Order) Total() float64 {
	var total float64
	for _, it := range o.Cart {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// Prepare validates o and returns the document to store: server-computed
// total, creation time set to now, and no client-supplied identifier.
func Prepare(o Order, now time.Time) (Order, error) {
	if err := o.Validate(); err != nil {
		return Order{}, err
	}
	o.ID = ""
	o.TotalPrice = o.Total()
	o.CreatedAt = now.UTC()
	return o, nil
}

// IsValidation reports whether err is one of the order validation failures.
func IsValidation(err error) bool {
	for _, target := range []error{ErrMissingFields, ErrEmptyCart, ErrInvalidName, ErrInvalidPhone, ErrInvalidGiftPhone} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
