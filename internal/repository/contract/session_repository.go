package contract

import (
	"context"

	"financial-assistant-be/internal/entity"

	"github.com/google/uuid"
)

type SessionRepository interface {
	Save(ctx context.Context, session *entity.Session) error
	// FindById returns (nil, nil) when the session is unknown or expired.
	FindById(ctx context.Context, id uuid.UUID) (*entity.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
