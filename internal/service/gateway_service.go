package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"shopgate/internal/domain"
	"shopgate/internal/registry"
	"shopgate/internal/repository"
	"shopgate/internal/upload"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the cost factor for hashing submitted passwords.
const BcryptCost = 10

// GatewayService is the generic CRUD dispatcher. Model resolution always runs
// first; identifier and body handling only happen for known models.
type GatewayService interface {
	List(ctx context.Context, model string) (any, error)
	Get(ctx context.Context, model, rawID string) (any, error)
	Create(ctx context.Context, model string, fields map[string]string, files []upload.Input) (any, error)
	Update(ctx context.Context, model string, fields map[string]string, files []upload.Input) (any, error)
	Delete(ctx context.Context, model, rawID string) error
}

type gatewayService struct {
	registry *registry.Registry
	products repository.ProductRepository
	carts    repository.CartRepository
	featured repository.FeaturedProductRepository
	reviews  repository.ReviewRepository
	posts    repository.PostRepository
	uploader upload.Uploader
	logger   *zap.Logger
}

// NewGatewayService creates a new instance of GatewayService.
func NewGatewayService(
	reg *registry.Registry,
	products repository.ProductRepository,
	carts repository.CartRepository,
	featured repository.FeaturedProductRepository,
	reviews repository.ReviewRepository,
	posts repository.PostRepository,
	uploader upload.Uploader,
	logger *zap.Logger,
) GatewayService {
	return &gatewayService{
		registry: reg,
		products: products,
		carts:    carts,
		featured: featured,
		reviews:  reviews,
		posts:    posts,
		uploader: uploader,
		logger:   logger,
	}
}

// List returns the full collection for the model. featuredProduct gets the
// three-level eager fetch; review and post get the restricted author
// projection joined in.
func (s *gatewayService) List(ctx context.Context, modelName string) (any, error) {
	model, store, err := s.registry.Resolve(modelName)
	if err != nil {
		return nil, err
	}

	switch model {
	case domain.ModelFeaturedProduct:
		return s.featured.ListWithProduct(ctx)
	case domain.ModelReview:
		return s.reviews.ListWithAuthor(ctx)
	case domain.ModelPost:
		return s.posts.ListWithAuthor(ctx)
	default:
		return store.FindMany(ctx)
	}
}

// Get returns a single record by identifier, except for review where the id
// is reinterpreted as a contentId and a collection is returned.
func (s *gatewayService) Get(ctx context.Context, modelName, rawID string) (any, error) {
	model, store, err := s.registry.Resolve(modelName)
	if err != nil {
		return nil, err
	}

	id, err := model.ParseID(rawID)
	if err != nil {
		// An identifier that fails validation never resolves to a record.
		return nil, repository.ErrNotFound
	}

	if model == domain.ModelReview {
		return s.reviews.ListByContent(ctx, id.Num)
	}

	return store.FindByID(ctx, id)
}

// Create persists a new record, attaching uploaded assets and applying the
// per-model pre-persist hooks first. Cart creation is fully overridden by the
// pricing rule.
func (s *gatewayService) Create(ctx context.Context, modelName string, fields map[string]string, files []upload.Input) (any, error) {
	model, store, err := s.registry.Resolve(modelName)
	if err != nil {
		return nil, err
	}
	policy := s.registry.Policy(model)

	rec := recordFromFields(fields)

	if err := s.attachUploads(ctx, model, policy, rec, files, true); err != nil {
		return nil, err
	}

	if model == domain.ModelProduct {
		applyProductDefaults(rec)
	}

	if policy.HashPassword {
		if err := hashPasswordField(rec); err != nil {
			return nil, err
		}
	}

	if policy.PricedCreate {
		return s.createPricedCart(ctx, rec)
	}

	return store.Create(ctx, rec)
}

// Update merges only the submitted fields into the existing record. The same
// upload and password rules as create apply; the identifier comes from the
// body and is stripped before persisting.
func (s *gatewayService) Update(ctx context.Context, modelName string, fields map[string]string, files []upload.Input) (any, error) {
	model, store, err := s.registry.Resolve(modelName)
	if err != nil {
		return nil, err
	}
	policy := s.registry.Policy(model)

	rec := recordFromFields(fields)

	if err := s.attachUploads(ctx, model, policy, rec, files, false); err != nil {
		return nil, err
	}

	if policy.HashPassword {
		if err := hashPasswordField(rec); err != nil {
			return nil, err
		}
	}

	id, err := model.ParseID(fields["id"])
	if err != nil {
		return nil, err
	}
	delete(rec, "id")

	return store.Update(ctx, id, rec)
}

// Delete removes the single record matching the identifier.
func (s *gatewayService) Delete(ctx context.Context, modelName, rawID string) error {
	model, store, err := s.registry.Resolve(modelName)
	if err != nil {
		return err
	}

	id, err := model.ParseID(rawID)
	if err != nil {
		return err
	}

	return store.Delete(ctx, id)
}

// attachUploads runs the upload adapter for each submitted file and merges
// the resulting URLs into the record per the model's upload policy. On create
// a multi-upload model always ends up with a list, even an empty one.
func (s *gatewayService) attachUploads(ctx context.Context, model domain.Model, policy registry.Policy, rec domain.Record, files []upload.Input, isCreate bool) error {
	if policy.Upload == registry.UploadNone {
		return nil
	}

	switch policy.Upload {
	case registry.UploadMulti:
		if len(files) == 0 {
			if isCreate {
				rec[policy.UploadField] = []string{}
			}
			return nil
		}

		urls := make([]string, 0, len(files))
		for _, f := range files {
			asset, err := s.uploader.Upload(ctx, f)
			if err != nil {
				return fmt.Errorf("failed to upload file for %s: %w", model, err)
			}
			urls = append(urls, asset.URL)
		}
		rec[policy.UploadField] = urls

	case registry.UploadSingle:
		if len(files) == 0 {
			return nil
		}

		asset, err := s.uploader.Upload(ctx, files[0])
		if err != nil {
			return fmt.Errorf("failed to upload file for %s: %w", model, err)
		}
		rec[policy.UploadField] = asset.URL
	}

	return nil
}

// createPricedCart implements the cart pricing rule: every line item is
// re-priced against the current catalog and the computed total is stored;
// a caller-supplied total is never trusted.
func (s *gatewayService) createPricedCart(ctx context.Context, rec domain.Record) (any, error) {
	items, err := parseCartItems(rec)
	if err != nil {
		return nil, err
	}

	ids := distinctProductIDs(items)
	prices, err := s.products.PricesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, item := range items {
		if price, ok := prices[item.ProductID]; ok {
			total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
	}

	userID, _ := rec["userId"].(string)
	status, _ := rec["status"].(string)
	if status == "" {
		status = "pending"
	}

	s.logger.Debug("Creating priced cart",
		zap.String("user_id", userID),
		zap.Int("items", len(items)),
		zap.String("total", total.String()),
	)

	return s.carts.CreateWithItems(ctx, userID, total, status, items)
}

// parseCartItems extracts the (productId, quantity) pairs from the submitted
// products field. A missing or empty field yields no items, not an error.
func parseCartItems(rec domain.Record) ([]domain.CartItemInput, error) {
	raw, _ := rec["products"].(string)
	if strings.TrimSpace(raw) == "" {
		return []domain.CartItemInput{}, nil
	}

	var items []domain.CartItemInput
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("invalid products payload: %w", err)
	}

	return items, nil
}

func distinctProductIDs(items []domain.CartItemInput) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

// applyProductDefaults fills the required product fields rather than
// rejecting the request: name, category, description and price all default.
func applyProductDefaults(rec domain.Record) {
	name, _ := rec["name"].(string)
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Unnamed Product"
	}
	rec["name"] = name

	if _, ok := rec["categoryId"].(string); !ok {
		rec["categoryId"] = ""
	}
	if _, ok := rec["description"].(string); !ok {
		rec["description"] = ""
	}

	price := 0.0
	if raw, ok := rec["price"].(string); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			price = parsed
		}
	}
	rec["price"] = price
}

// hashPasswordField replaces a submitted plaintext password with its salted
// hash. Plaintext never reaches the persistence layer.
func hashPasswordField(rec domain.Record) error {
	password, _ := rec["password"].(string)
	if password == "" {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	rec["password"] = string(hashed)
	return nil
}

// recordFromFields copies the submitted form fields into a record, excluding
// the file parts handled by the upload adapter.
func recordFromFields(fields map[string]string) domain.Record {
	rec := domain.Record{}
	for key, value := range fields {
		if key == "file" {
			continue
		}
		rec[key] = value
	}
	return rec
}
