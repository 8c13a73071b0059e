package domain

import "time"

// Record is an opaque entity row as exchanged with the generic store: field
// names are the wire (JSON) names, values are already coerced to their column
// types.
type Record map[string]any

// UserProfile is the restricted author projection joined into review and post
// listings. It deliberately carries no password or other sensitive fields.
type UserProfile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

// User is the full account row, used by the auth flows. The password hash is
// never serialized.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	Role      string    `json:"role"`
	Password  string    `json:"-"`
	AvatarURL string    `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	CategoryID  string    `json:"categoryId"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Populated by the featuredProduct eager fetch; empty review collections
	// stay empty lists, never null.
	Category *Category `json:"category"`
	Stock    *Stock    `json:"stock"`
	Reviews  []Review  `json:"reviews"`
}

type Stock struct {
	ID        int64     `json:"id"`
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Review struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	ProductID string    `json:"productId"`
	ContentID int64     `json:"contentId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`

	User *UserProfile `json:"user,omitempty"`
}

type Post struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"createdAt"`

	User *UserProfile `json:"user,omitempty"`
}

type FeaturedProduct struct {
	ID        int64  `json:"id"`
	ProductID string `json:"productId"`
	Position  int    `json:"position"`

	Product *Product `json:"product"`
}

// Cart is returned from cart creation with its items included; the JSON key
// for the item collection matches the relation name the clients expect.
type Cart struct {
	ID        int64      `json:"id"`
	UserID    string     `json:"userId"`
	Status    string     `json:"status"`
	Total     float64    `json:"total"`
	CreatedAt time.Time  `json:"createdAt"`
	Products  []CartItem `json:"products"`
}

type CartItem struct {
	ID        int64  `json:"id"`
	CartID    int64  `json:"cartId"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CartItemInput is one (productId, quantity) pair submitted on cart creation.
type CartItemInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// RefreshToken backs the auth refresh flow.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	Revoked   bool
}
