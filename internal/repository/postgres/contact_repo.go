package postgres

import (
	"context"
	"fmt"

	"portfolio-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// queryRower is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx
type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type contactRepo struct {
	db queryRower
}

// NewContactRepository creates a new contact message repository
func NewContactRepository(db queryRower) domain.ContactRepository {
	return &contactRepo{db: db}
}

// Create appends a contact message and returns the stored record
func (r *contactRepo) Create(ctx context.Context, msg *domain.ContactMessage) (*domain.ContactRecord, error) {
	query := `
		INSERT INTO contact_messages (id, name, email, subject, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	record := &domain.ContactRecord{
		ID:             uuid.New(),
		ContactMessage: *msg,
	}

	err := r.db.QueryRow(ctx, query,
		record.ID, msg.Name, msg.Email, msg.Subject, msg.Message,
	).Scan(&record.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: insert contact message: %w", domain.ErrStoreUnavailable, err)
	}
	return record, nil
}
