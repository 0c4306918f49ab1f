package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ContactMessage is a submission from the marketing site's contact form.
type ContactMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:140"`
	Email     string    `gorm:"size:140"`
	Message   string    `gorm:"type:text"`
	CreatedAt time.Time
}

type ContactRepo interface {
	Save(ctx context.Context, m *ContactMessage) error
}
