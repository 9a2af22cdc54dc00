package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"portfolio-backend/internal/domain"

	"github.com/google/uuid"
)

type contactRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewContactRepository creates a contact repository backed by a SQLite file
func NewContactRepository(db *sql.DB) domain.ContactRepository {
	return &contactRepo{db: db, now: time.Now}
}

func (r *contactRepo) Create(ctx context.Context, msg *domain.ContactMessage) (*domain.ContactRecord, error) {
	record := &domain.ContactRecord{
		ID:             uuid.New(),
		CreatedAt:      r.now().UTC(),
		ContactMessage: *msg,
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO contact_messages (id, name, email, subject, message, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		record.ID.String(), msg.Name, msg.Email, msg.Subject, msg.Message, record.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: insert contact message: %w", domain.ErrStoreUnavailable, err)
	}
	return record, nil
}
