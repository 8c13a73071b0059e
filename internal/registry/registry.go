// Package registry holds the closed mapping from model names to data-access
// handles, plus the per-model policy records that keep the dispatcher itself
// generic: identifier kind, accepted upload arity and the pre-persist hooks
// a model needs.
package registry

import (
	"database/sql"

	"shopgate/internal/domain"
	"shopgate/internal/repository"
)

// UploadArity describes how many uploaded files a model accepts.
type UploadArity int

const (
	UploadNone UploadArity = iota
	UploadSingle
	UploadMulti
)

// Policy is the static per-model behavior record consulted by the gateway.
type Policy struct {
	IDKind       domain.IDKind
	Upload       UploadArity
	UploadField  string
	HashPassword bool
	PricedCreate bool
}

// Registry resolves model names to stores and policies. The set is fixed at
// startup; there is no dynamic registration.
type Registry struct {
	stores   map[domain.Model]repository.Store
	policies map[domain.Model]Policy
}

// New builds the registry over the fourteen gateway tables.
func New(db *sql.DB) *Registry {
	stores := make(map[domain.Model]repository.Store, len(tables))
	for model, table := range tables {
		stores[model] = repository.NewTableStore(db, table)
	}

	return &Registry{
		stores:   stores,
		policies: policies,
	}
}

// NewWithStores builds a registry over caller-supplied stores, keeping the
// standard policies. Tests use it to substitute in-memory stores.
func NewWithStores(stores map[domain.Model]repository.Store) *Registry {
	return &Registry{
		stores:   stores,
		policies: policies,
	}
}

// Resolve maps a model name to its Model value and store, failing with
// domain.ErrUnknownModel for any name outside the fixed set.
func (r *Registry) Resolve(name string) (domain.Model, repository.Store, error) {
	model, err := domain.ParseModel(name)
	if err != nil {
		return 0, nil, err
	}
	return model, r.stores[model], nil
}

// Policy returns the static policy record for a model.
func (r *Registry) Policy(model domain.Model) Policy {
	return r.policies[model]
}

var policies = map[domain.Model]Policy{
	domain.ModelCart:            {IDKind: domain.IDNumeric, PricedCreate: true},
	domain.ModelCartItem:        {IDKind: domain.IDNumeric},
	domain.ModelCategory:        {IDKind: domain.IDText, Upload: UploadSingle, UploadField: "image"},
	domain.ModelCoupon:          {IDKind: domain.IDNumeric},
	domain.ModelFeaturedProduct: {IDKind: domain.IDNumeric},
	domain.ModelNotification:    {IDKind: domain.IDNumeric},
	domain.ModelPayment:         {IDKind: domain.IDNumeric},
	domain.ModelPost:            {IDKind: domain.IDNumeric},
	domain.ModelProduct:         {IDKind: domain.IDText, Upload: UploadMulti, UploadField: "images"},
	domain.ModelRefund:          {IDKind: domain.IDNumeric},
	domain.ModelReview:          {IDKind: domain.IDNumeric},
	domain.ModelShippingAddress: {IDKind: domain.IDNumeric},
	domain.ModelStock:           {IDKind: domain.IDNumeric},
	domain.ModelUser:            {IDKind: domain.IDText, Upload: UploadSingle, UploadField: "avatarUrl", HashPassword: true},
}

var tables = map[domain.Model]repository.Table{
	domain.ModelCart: {
		Name:   "carts",
		IDKind: domain.IDNumeric,
		Columns: []repository.Column{
			{Field: "userId", Name: "user_id", Kind: repository.ColText},
			{Field: "status", Name: "status", Kind: repository.ColText},
			{Field: "total", Name: "total", Kind: repository.ColFloat},
			{Field: "createdAt", Name: "created_at", Kind: repository.ColTime},
		},
	},
	domain.ModelCartItem: {
		Name:   "cart_items",
		IDKind: domain.IDNumeric,
		Columns: []repository.Column{
			{Field: "cartId", Name: "cart_id", Kind: repository.ColInt},
			{Field: "productId", Name: "product_id", Kind: repository.ColText},
			{Field: "quantity", Name: "quantity", Kind: repository.ColInt},
		},
	},
	domain.ModelCategory: {
		Name:   "categories",
		IDKind: domain.IDText,
		Columns: []repository.Column{
			{Field: "name", Name: "name", Kind: repository.ColText},
			{Field: "description", Name: "description", Kind: repository.ColText},
			{Field: "image", Name: "image", Kind: repository.ColText},
			{Field: "createdAt", Name: "created_at", Kind: repository.ColTime},
		},
	},
	domain.ModelCoupon: {
		Name:   "coupons",
		IDKind: domain.IDNumeric,
		Columns: []repository.Column{
			{Field: "code", Name: "code", Kind: repository.ColText},
			{Field: "discountType", Name: "discount_type", Kind: repository.ColText},
			{Field: "discountValue", Name: "discount_value", Kind: repository.ColFloat},
			{Field: "minOrderValue", Name: "min_order_value", Kind: repository.ColFloat},
			{Field: "expiresAt", Name: "expires_at", Kind: repository.ColTime},
			{Field: "active", Name: "active", Kind: repository.ColBool},
			{Field: "createdAt", Name: "created_at", Kind: repository.ColTime},
		},
	},
	domain.ModelFeaturedProduct: {
		Name:   "featured_products",
		IDKind: domain.IDNumeric,
		Columns: []repository.Column{
			{Field: "productId", Name: "product_id", Kind: repository.ColText},
			{Field: "position", Name: "position", Kind: repository.ColInt},
		},
	},
	domain.ModelNotification: {
		Name:   "notifications",
		IDKind: domain.IDNumeric,
		Columns: []repository.Column{
			{Field: "userId", Name: "user_id", Kind: repository.ColText},
			{Field: "message", Name: "message", Kind: repository.ColText},
			{Field: "isRead", Name: "is_read", Kind: repository.ColBool},
			{Field: "createdAt", Name: "created_at", Kind: repository.ColTime},
		},
	},
	domain.ModelPayment: {
		Name:   "payments",
		IDKind: domain.IDNumeric,
		Columns: []repository.Column{
			{Field: "userId", Name: "user_id", Kind: repository.ColText},
			{Field: "cartId", Name: "cart_id", Kind: repository.ColInt},
			{Field: "amount", Name: "amount", Kind: repository.ColFloat},
			{Field: "method", Name: "method", Kind: repository.ColText},
			{Field: "status", Name: "status", Kind: repository.ColText},
			{Field: "createdAt", Name: "created_at", Kind: repository.ColTime},
		},
	},
	domain.ModelPost: {
		Name:   "posts",
		IDKind: domain.IDNumeric,
		Columns: []repository.Column{
			{Field: "userId", Name: "user_id", Kind: repository.ColText},
			{Field: "title", Name: "title", Kind: repository.ColText},
			{Field: "content", Name: "content", Kind: repository.ColText},
			{Field: "image", Name: "image", Kind: repository.ColText},
			{Field: "createdAt", Name: "created_at", Kind: repository.ColTime},
		},
	},
	domain.ModelProduct: {
		Name:   "products",
		IDKind: domain.IDText,
		Columns: []repository.Column{
			{Field: "name", Name: "name", Kind: repository.ColText},
			{Field: "description", Name: "description", Kind: repository.ColText},
			{Field: "price", Name: "price", Kind: repository.ColFloat},
			{Field: "categoryId", Name: "category_id", Kind: repository.ColText},
			{Field: "images", Name: "images", Kind: repository.ColJSON},
			{Field: "createdAt", Name: "created_at", Kind: repository.ColTime},
			{Field: "updatedAt", Name: "updated_at", Kind: repository.ColTime},
		},
	},
	domain.ModelRefund: {
		Name:   "refunds",
		IDKind: domain.IDNumeric,
		Columns: []repository.Column{
			{Field: "paymentId", Name: "payment_id", Kind: repository.ColInt},
			{Field: "amount", Name: "amount", Kind: repository.ColFloat},
			{Field: "reason", Name: "reason", Kind: repository.ColText},
			{Field: "status", Name: "status", Kind: repository.ColText},
			{Field: "createdAt", Name: "created_at", Kind: repository.ColTime},
		},
	},
	domain.ModelReview: {
		Name:   "reviews",
		IDKind: domain.IDNumeric,
		Columns: []repository.Column{
			{Field: "userId", Name: "user_id", Kind: repository.ColText},
			{Field: "productId", Name: "product_id", Kind: repository.ColText},
			{Field: "contentId", Name: "content_id", Kind: repository.ColInt},
			{Field: "rating", Name: "rating", Kind: repository.ColInt},
			{Field: "comment", Name: "comment", Kind: repository.ColText},
			{Field: "createdAt", Name: "created_at", Kind: repository.ColTime},
		},
	},
	domain.ModelShippingAddress: {
		Name:   "shipping_addresses",
		IDKind: domain.IDNumeric,
		Columns: []repository.Column{
			{Field: "userId", Name: "user_id", Kind: repository.ColText},
			{Field: "line1", Name: "line1", Kind: repository.ColText},
			{Field: "line2", Name: "line2", Kind: repository.ColText},
			{Field: "city", Name: "city", Kind: repository.ColText},
			{Field: "state", Name: "state", Kind: repository.ColText},
			{Field: "postalCode", Name: "postal_code", Kind: repository.ColText},
			{Field: "country", Name: "country", Kind: repository.ColText},
			{Field: "isDefault", Name: "is_default", Kind: repository.ColBool},
		},
	},
	domain.ModelStock: {
		Name:   "stocks",
		IDKind: domain.IDNumeric,
		Columns: []repository.Column{
			{Field: "productId", Name: "product_id", Kind: repository.ColText},
			{Field: "quantity", Name: "quantity", Kind: repository.ColInt},
			{Field: "updatedAt", Name: "updated_at", Kind: repository.ColTime},
		},
	},
	domain.ModelUser: {
		Name:   "users",
		IDKind: domain.IDText,
		Columns: []repository.Column{
			{Field: "email", Name: "email", Kind: repository.ColText},
			{Field: "name", Name: "name", Kind: repository.ColText},
			{Field: "contact", Name: "contact", Kind: repository.ColText},
			{Field: "role", Name: "role", Kind: repository.ColText},
			{Field: "password", Name: "password", Kind: repository.ColText},
			{Field: "avatarUrl", Name: "avatar_url", Kind: repository.ColText},
			{Field: "createdAt", Name: "created_at", Kind: repository.ColTime},
			{Field: "updatedAt", Name: "updated_at", Kind: repository.ColTime},
		},
	},
}
