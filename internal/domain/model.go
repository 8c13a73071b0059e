package domain

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrUnknownModel = errors.New("unknown model")
	ErrMissingID    = errors.New("missing id")
)

// Model identifies one of the entity kinds served by the gateway. The set is
// closed and known at startup; there is no dynamic registration.
type Model int

const (
	ModelCart Model = iota
	ModelCartItem
	ModelCategory
	ModelCoupon
	ModelFeaturedProduct
	ModelNotification
	ModelPayment
	ModelPost
	ModelProduct
	ModelRefund
	ModelReview
	ModelShippingAddress
	ModelStock
	ModelUser
)

var modelNames = map[string]Model{
	"cart":            ModelCart,
	"cartItem":        ModelCartItem,
	"category":        ModelCategory,
	"coupon":          ModelCoupon,
	"featuredProduct": ModelFeaturedProduct,
	"notification":    ModelNotification,
	"payment":         ModelPayment,
	"post":            ModelPost,
	"product":         ModelProduct,
	"refund":          ModelRefund,
	"review":          ModelReview,
	"shippingAddress": ModelShippingAddress,
	"stock":           ModelStock,
	"user":            ModelUser,
}

// ParseModel resolves a model name to its Model value.
func ParseModel(name string) (Model, error) {
	m, ok := modelNames[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}
	return m, nil
}

func (m Model) String() string {
	for name, v := range modelNames {
		if v == m {
			return name
		}
	}
	return "unknown"
}

// IDKind describes how a model's primary key is represented on the wire.
type IDKind int

const (
	IDNumeric IDKind = iota
	IDText
)

// IDKind returns the identifier convention for the model: textual for user,
// category and product, numeric for everything else.
func (m Model) IDKind() IDKind {
	switch m {
	case ModelUser, ModelCategory, ModelProduct:
		return IDText
	default:
		return IDNumeric
	}
}

// ID is a parsed record identifier, either textual or numeric depending on
// the owning model.
type ID struct {
	Kind IDKind
	Text string
	Num  int64
}

// Value returns the identifier as a driver-ready value.
func (id ID) Value() any {
	if id.Kind == IDText {
		return id.Text
	}
	return id.Num
}

func (id ID) String() string {
	if id.Kind == IDText {
		return id.Text
	}
	return strconv.FormatInt(id.Num, 10)
}

// ParseID parses a raw identifier according to the model's convention.
// Empty input, a zero numeric id, and a non-numeric string for a numeric-id
// model all fail identifier validation with ErrMissingID.
func (m Model) ParseID(raw string) (ID, error) {
	if raw == "" {
		return ID{}, ErrMissingID
	}

	if m.IDKind() == IDText {
		return ID{Kind: IDText, Text: raw}, nil
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n == 0 {
		return ID{}, fmt.Errorf("%w: %q is not a valid numeric id", ErrMissingID, raw)
	}

	return ID{Kind: IDNumeric, Num: n}, nil
}
