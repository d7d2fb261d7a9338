package catalog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aventra-health/benefits-store-backend/pkg/db/models"
	"github.com/aventra-health/benefits-store-backend/pkg/enums"
	pkgerrors "github.com/aventra-health/benefits-store-backend/pkg/errors"
	"github.com/aventra-health/benefits-store-backend/pkg/logger"
)

// Service implements the storefront and admin product operations.
type Service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService wires the catalog service.
func NewService(repo *Repository, logg *logger.Logger) *Service {
	return &Service{repo: repo, logg: logg}
}

// ListPublished returns storefront cards, optionally filtered by category or search term.
func (s *Service) ListPublished(ctx context.Context, category, search string) ([]ProductCard, error) {
	products, err := s.repo.ListPublished(ctx, strings.TrimSpace(category), strings.TrimSpace(search))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	cards := make([]ProductCard, 0, len(products))
	for _, p := range products {
		cards = append(cards, toCard(p))
	}
	return cards, nil
}

// GetBySlug returns the public detail for a published product. Drafts are
// indistinguishable from missing products.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*ProductDetail, error) {
	product, err := s.repo.FindPublishedBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	detail := toDetail(*product)
	return &detail, nil
}

// AdminList returns every product for the admin console.
func (s *Service) AdminList(ctx context.Context) ([]ProductDetail, error) {
	products, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	details := make([]ProductDetail, 0, len(products))
	for _, p := range products {
		details = append(details, toDetail(p))
	}
	return details, nil
}

// AdminGet loads a single product regardless of status.
func (s *Service) AdminGet(ctx context.Context, id uuid.UUID) (*ProductDetail, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	detail := toDetail(*product)
	return &detail, nil
}

// Create provisions a new draft product with a unique slug.
func (s *Service) Create(ctx context.Context, input CreateProductInput) (*ProductDetail, error) {
	if input.Price == nil || input.MRP == nil || strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Category) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Name, Price, MRP, and Category are required.")
	}
	if input.StockQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Stock quantity must be non-negative.")
	}

	slugSource := input.Slug
	if strings.TrimSpace(slugSource) == "" {
		slugSource = input.Name
	}
	slug, err := s.uniqueSlug(ctx, slugSource, uuid.Nil)
	if err != nil {
		return nil, err
	}

	images := input.Images
	if images == nil {
		images = []string{}
	}

	product := &models.Product{
		Name:             strings.TrimSpace(input.Name),
		Slug:             slug,
		Description:      input.Description,
		Category:         strings.TrimSpace(input.Category),
		Price:            *input.Price,
		MRP:              *input.MRP,
		StockQuantity:    input.StockQuantity,
		Images:           images,
		Status:           enums.ProductStatusDraft,
		WalletEligible:   input.WalletEligible,
		RewardsEligible:  input.RewardsEligible,
		BenefitProgramID: input.BenefitProgram,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}

	s.logg.Info(s.logg.WithField(ctx, "product_id", product.ID.String()), "product created")

	detail := toDetail(*product)
	return &detail, nil
}

// Update applies a partial update; absent fields keep their stored values.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDetail, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	if input.Slug != nil && *input.Slug != product.Slug {
		slug, err := s.uniqueSlug(ctx, *input.Slug, product.ID)
		if err != nil {
			return nil, err
		}
		product.Slug = slug
	}
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.MRP != nil {
		product.MRP = *input.MRP
	}
	if input.StockQuantity != nil {
		if *input.StockQuantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Stock quantity must be non-negative.")
		}
		product.StockQuantity = *input.StockQuantity
	}
	if input.Images != nil {
		product.Images = input.Images
	}
	if input.Status != nil {
		status, err := enums.ParseProductStatus(*input.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid product status.")
		}
		product.Status = status
	}
	if input.WalletEligible != nil {
		product.WalletEligible = *input.WalletEligible
	}
	if input.RewardsEligible != nil {
		product.RewardsEligible = *input.RewardsEligible
	}
	if input.BenefitProgram != nil {
		product.BenefitProgramID = input.BenefitProgram
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving product")
	}

	detail := toDetail(*product)
	return &detail, nil
}

var slugInvalidRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify collapses a name into a url-safe identifier.
func Slugify(value string) string {
	slug := strings.ToLower(strings.TrimSpace(value))
	slug = slugInvalidRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func (s *Service) uniqueSlug(ctx context.Context, source string, excludeID uuid.UUID) (string, error) {
	base := Slugify(source)
	if base == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "Slug cannot be empty.")
	}

	slug := base
	for counter := 2; ; counter++ {
		exists, err := s.repo.SlugExists(ctx, slug, excludeID)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking slug uniqueness")
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}
