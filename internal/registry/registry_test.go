package registry

import (
	"errors"
	"testing"

	"shopgate/internal/domain"
)

var allModelNames = []string{
	"cart", "cartItem", "category", "coupon", "featuredProduct",
	"notification", "payment", "post", "product", "refund",
	"review", "shippingAddress", "stock", "user",
}

func TestResolve_CoversEveryModel(t *testing.T) {
	reg := New(nil)

	for _, name := range allModelNames {
		model, store, err := reg.Resolve(name)
		if err != nil {
			t.Errorf("Resolve(%q) returned error: %v", name, err)
			continue
		}
		if store == nil {
			t.Errorf("Resolve(%q) returned nil store", name)
		}
		if model.String() != name {
			t.Errorf("Resolve(%q) resolved to model %q", name, model)
		}
	}
}

func TestResolve_UnknownModel(t *testing.T) {
	reg := New(nil)

	for _, name := range []string{"", "orders", "Product", "USER"} {
		_, _, err := reg.Resolve(name)
		if !errors.Is(err, domain.ErrUnknownModel) {
			t.Errorf("Resolve(%q) = %v, want ErrUnknownModel", name, err)
		}
	}
}

func TestPolicies(t *testing.T) {
	reg := New(nil)

	cart := reg.Policy(domain.ModelCart)
	if !cart.PricedCreate {
		t.Error("cart policy should require priced create")
	}
	if cart.Upload != UploadNone {
		t.Error("cart policy should accept no uploads")
	}

	user := reg.Policy(domain.ModelUser)
	if !user.HashPassword {
		t.Error("user policy should hash passwords")
	}
	if user.Upload != UploadSingle || user.UploadField != "avatarUrl" {
		t.Errorf("user upload policy = %+v, want single avatarUrl", user)
	}

	product := reg.Policy(domain.ModelProduct)
	if product.Upload != UploadMulti || product.UploadField != "images" {
		t.Errorf("product upload policy = %+v, want multi images", product)
	}
	if product.HashPassword || product.PricedCreate {
		t.Error("product policy should carry no password or pricing hooks")
	}

	category := reg.Policy(domain.ModelCategory)
	if category.Upload != UploadSingle || category.UploadField != "image" {
		t.Errorf("category upload policy = %+v, want single image", category)
	}

	// Everything else is plain CRUD.
	for _, m := range []domain.Model{
		domain.ModelCartItem, domain.ModelCoupon, domain.ModelFeaturedProduct,
		domain.ModelNotification, domain.ModelPayment, domain.ModelPost,
		domain.ModelRefund, domain.ModelReview, domain.ModelShippingAddress,
		domain.ModelStock,
	} {
		p := reg.Policy(m)
		if p.Upload != UploadNone || p.HashPassword || p.PricedCreate {
			t.Errorf("%s policy = %+v, want plain CRUD", m, p)
		}
	}
}

func TestTableIDKindsMatchModels(t *testing.T) {
	for model, table := range tables {
		if table.IDKind != model.IDKind() {
			t.Errorf("%s: table id kind %v does not match model id kind %v", model, table.IDKind, model.IDKind())
		}
	}
}
