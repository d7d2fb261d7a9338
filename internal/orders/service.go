package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/aventra-health/benefits-store-backend/pkg/errors"
	"github.com/aventra-health/benefits-store-backend/pkg/logger"
)

// Service exposes order history reads for customers.
type Service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService wires the orders service.
func NewService(repo *Repository, logg *logger.Logger) *Service {
	return &Service{repo: repo, logg: logg}
}

// ListMine returns the calling user's order history.
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID) ([]Summary, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	summaries := make([]Summary, 0, len(orders))
	for _, o := range orders {
		summaries = append(summaries, toSummary(o))
	}
	return summaries, nil
}

// GetMine returns one of the calling user's orders with its line snapshots.
func (s *Service) GetMine(ctx context.Context, userID, orderID uuid.UUID) (*Detail, error) {
	order, err := s.repo.FindForUser(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	detail := toDetail(*order)
	return &detail, nil
}
