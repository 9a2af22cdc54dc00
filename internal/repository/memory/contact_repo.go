package memory

import (
	"context"
	"sync"
	"time"

	"portfolio-backend/internal/domain"

	"github.com/google/uuid"
)

// ContactRepository keeps messages in process memory. Used in development
// and tests; contents are lost on restart.
type ContactRepository struct {
	mu       sync.Mutex
	messages []domain.ContactRecord
	now      func() time.Time
}

func NewContactRepository() *ContactRepository {
	return &ContactRepository{now: time.Now}
}

func (r *ContactRepository) Create(ctx context.Context, msg *domain.ContactMessage) (*domain.ContactRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	record := domain.ContactRecord{
		ID:             uuid.New(),
		CreatedAt:      r.now().UTC(),
		ContactMessage: *msg,
	}

	r.mu.Lock()
	r.messages = append(r.messages, record)
	r.mu.Unlock()

	return &record, nil
}

// Messages returns a copy of the stored records in insertion order.
func (r *ContactRepository) Messages() []domain.ContactRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ContactRecord, len(r.messages))
	copy(out, r.messages)
	return out
}

func (r *ContactRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}

func (r *ContactRepository) Ping(ctx context.Context) error {
	return nil
}
