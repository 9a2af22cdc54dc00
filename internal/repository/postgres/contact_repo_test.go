package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"portfolio-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDB struct {
	mock.Mock
}

func (m *MockDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return m.Called(append([]any{sql}, args...)...).Get(0).(pgx.Row)
}

type fakeRow struct {
	createdAt time.Time
	err       error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*time.Time)) = r.createdAt
	return nil
}

func TestContactRepoCreate(t *testing.T) {
	created := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	db := new(MockDB)
	db.On("QueryRow", mock.AnythingOfType("string"), mock.Anything, "Jo", "a@b.co", "", "1234567890").
		Return(fakeRow{createdAt: created})

	repo := NewContactRepository(db)
	rec, err := repo.Create(context.Background(), &domain.ContactMessage{Name: "Jo", Email: "a@b.co", Message: "1234567890"})

	require.NoError(t, err)
	assert.Equal(t, created, rec.CreatedAt)
	assert.NotZero(t, rec.ID)
	assert.Equal(t, "Jo", rec.Name)
	db.AssertExpectations(t)
}

func TestContactRepoCreateError(t *testing.T) {
	db := new(MockDB)
	db.On("QueryRow", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(fakeRow{err: errors.New("connection reset")})

	repo := NewContactRepository(db)
	rec, err := repo.Create(context.Background(), &domain.ContactMessage{Name: "Jo"})

	assert.Nil(t, rec)
	assert.ErrorContains(t, err, "insert contact message")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
