package memory

import (
	"context"
	"sync"
	"testing"

	"portfolio-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAppends(t *testing.T) {
	repo := NewContactRepository()
	msg := &domain.ContactMessage{Name: "Jo", Email: "a@b.co", Message: "1234567890"}

	first, err := repo.Create(context.Background(), msg)
	require.NoError(t, err)
	second, err := repo.Create(context.Background(), msg)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID, "identical payloads are stored as independent records")
	stored := repo.Messages()
	require.Len(t, stored, 2)
	assert.Equal(t, first.ID, stored[0].ID)
	assert.Equal(t, "Jo", stored[1].Name)
}

func TestCreateCopiesInput(t *testing.T) {
	repo := NewContactRepository()
	msg := &domain.ContactMessage{Name: "Jo", Email: "a@b.co", Message: "1234567890"}
	_, err := repo.Create(context.Background(), msg)
	require.NoError(t, err)

	msg.Name = "changed"
	assert.Equal(t, "Jo", repo.Messages()[0].Name)
}

func TestCreateCanceledContext(t *testing.T) {
	repo := NewContactRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Create(ctx, &domain.ContactMessage{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, repo.Len())
}

func TestCreateConcurrent(t *testing.T) {
	repo := NewContactRepository()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.Create(context.Background(), &domain.ContactMessage{Name: "Jo"})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, repo.Len())
}
