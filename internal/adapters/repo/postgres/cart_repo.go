package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/svaraband/storefront/internal/domain"
)

// CartRepo holds the per-user cart lines. ForUser binds it to one owner and
// yields the domain.CartStore the cart manager works against.
type CartRepo struct{ db *gorm.DB }

func NewCartRepo(db *gorm.DB) *CartRepo { return &CartRepo{db: db} }

func (r *CartRepo) ForUser(userID string) domain.CartStore {
	return &userCartStore{db: r.db, userID: userID}
}

type userCartStore struct {
	db     *gorm.DB
	userID string
}

// List returns the user's lines ordered by creation time descending, the
// order the remote store defines for cart listings.
func (s *userCartStore) List(ctx context.Context) ([]domain.CartLine, error) {
	var lines []domain.CartLine
	err := s.db.WithContext(ctx).
		Where("user_id = ?", s.userID).
		Order("created_at desc").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *userCartStore) Insert(ctx context.Context, line *domain.CartLine) error {
	line.ID = uuid.NewString()
	line.UserID = s.userID
	if line.CreatedAt.IsZero() {
		line.CreatedAt = time.Now()
	}
	return s.db.WithContext(ctx).Create(line).Error
}

func (s *userCartStore) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	return s.db.WithContext(ctx).
		Model(&domain.CartLine{}).
		Where("id = ? AND user_id = ?", id, s.userID).
		Update("quantity", quantity).Error
}

func (s *userCartStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, s.userID).
		Delete(&domain.CartLine{}).Error
}

func (s *userCartStore) DeleteAll(ctx context.Context) error {
	return s.db.WithContext(ctx).
		Where("user_id = ?", s.userID).
		Delete(&domain.CartLine{}).Error
}
