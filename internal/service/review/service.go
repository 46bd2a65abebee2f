package review

import (
	"context"
	"errors"
	"strings"

	"nutristore/internal/domain"
	reviewrepo "nutristore/internal/repository/review"
)

// ErrInvalidRating is returned when the rating falls outside 1..5.
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

type Service struct {
	repo        reviewrepo.Repository
	invalidator catalogInvalidator
}

// catalogInvalidator drops cached catalog snapshots after a review changes
// a product's rating aggregate.
type catalogInvalidator interface {
	Invalidate(ctx context.Context)
}

func New(repo reviewrepo.Repository, invalidator catalogInvalidator) *Service {
	return &Service{repo: repo, invalidator: invalidator}
}

type CreateInput struct {
	Rating  int    `json:"rating"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

// Create validates and stores a review for the product, attributed to the
// signed-in customer.
func (s *Service) Create(ctx context.Context, productID string, customer *domain.Customer, in CreateInput) (*domain.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, ErrInvalidRating
	}
	author := strings.TrimSpace(customer.FirstName + " " + customer.LastName)
	rev, err := s.repo.Create(ctx, domain.Review{
		ProductID:  productID,
		CustomerID: customer.ID,
		Author:     author,
		Rating:     in.Rating,
		Title:      strings.TrimSpace(in.Title),
		Comment:    strings.TrimSpace(in.Comment),
	})
	if err != nil {
		return nil, err
	}
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx)
	}
	return rev, nil
}

// ListByProduct returns the product's reviews, newest first.
func (s *Service) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	return s.repo.ListByProduct(ctx, productID)
}
