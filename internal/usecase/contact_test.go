package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/repository/memory"
	"portfolio-backend/internal/usecase"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/security"
	"portfolio-backend/pkg/validation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock Repositories
type MockContactRepo struct {
	mock.Mock
}

func (m *MockContactRepo) Create(ctx context.Context, msg *domain.ContactMessage) (*domain.ContactRecord, error) {
	args := m.Called(ctx, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContactRecord), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendNotification(ctx context.Context, msg *domain.ContactMessage) error {
	return m.Called(ctx, msg).Error(0)
}

var production = usecase.ContactOptions{Production: true, EmailConfigured: true}

func newContactUsecase(repo domain.ContactRepository, mailer domain.ContactMailer, opts usecase.ContactOptions) domain.ContactUsecase {
	return usecase.NewContactUsecase(repo, mailer, validation.NewSchema(), opts, logger.Discard(), security.Nop())
}

func validMessage() *domain.ContactMessage {
	return &domain.ContactMessage{Name: "Jo", Email: "a@b.co", Subject: "", Message: "1234567890"}
}

func TestSubmitProductionSendsEmail(t *testing.T) {
	repo := memory.NewContactRepository()
	mailer := new(MockMailer)
	mailer.On("SendNotification", mock.Anything, mock.AnythingOfType("*domain.ContactMessage")).Return(nil).Once()

	res, err := newContactUsecase(repo, mailer, production).Submit(context.Background(), validMessage())

	require.NoError(t, err)
	assert.True(t, res.EmailSent)
	assert.Equal(t, usecase.MsgSent, res.Message)
	assert.Equal(t, 1, repo.Len())
	mailer.AssertNumberOfCalls(t, "SendNotification", 1)
}

func TestSubmitDevelopmentSkipsEmail(t *testing.T) {
	tests := []struct {
		name string
		opts usecase.ContactOptions
	}{
		{"development mode", usecase.ContactOptions{Production: false, EmailConfigured: true}},
		{"missing credentials", usecase.ContactOptions{Production: true, EmailConfigured: false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := memory.NewContactRepository()
			mailer := new(MockMailer)

			res, err := newContactUsecase(repo, mailer, tt.opts).Submit(context.Background(), validMessage())

			require.NoError(t, err)
			assert.False(t, res.EmailSent)
			assert.Equal(t, usecase.MsgReceivedNoMail, res.Message)
			assert.Equal(t, 1, repo.Len())
			mailer.AssertNotCalled(t, "SendNotification", mock.Anything, mock.Anything)
		})
	}
}

func TestSubmitInvalidPayload(t *testing.T) {
	repo := memory.NewContactRepository()
	mailer := new(MockMailer)

	_, err := newContactUsecase(repo, mailer, production).Submit(context.Background(), &domain.ContactMessage{
		Name:  "Jo",
		Email: "a@b.co",
	})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, usecase.MsgInvalidForm, appErr.Message)
	require.Len(t, appErr.Fields, 1)
	assert.Equal(t, "message", appErr.Fields[0].Field)
	assert.Zero(t, repo.Len())
	mailer.AssertNotCalled(t, "SendNotification", mock.Anything, mock.Anything)
}

func TestSubmitMailFailureKeepsRecord(t *testing.T) {
	repo := memory.NewContactRepository()
	mailer := new(MockMailer)
	mailer.On("SendNotification", mock.Anything, mock.Anything).Return(errors.New("smtp: 421 try later"))

	res, err := newContactUsecase(repo, mailer, production).Submit(context.Background(), validMessage())

	assert.Nil(t, res)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	assert.Equal(t, usecase.MsgSendFailed, appErr.Message)
	assert.ErrorContains(t, appErr.Err, "421")
	assert.Equal(t, 1, repo.Len(), "message stays persisted when email fails")
}

func TestSubmitStoreFailureIsFatal(t *testing.T) {
	repo := new(MockContactRepo)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil, domain.ErrStoreUnavailable)
	mailer := new(MockMailer)

	_, err := newContactUsecase(repo, mailer, production).Submit(context.Background(), validMessage())

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	mailer.AssertNotCalled(t, "SendNotification", mock.Anything, mock.Anything)
}

func TestSubmitNormalizesBeforeStoring(t *testing.T) {
	repo := new(MockContactRepo)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ContactMessage")).
		Return(&domain.ContactRecord{ID: uuid.New(), CreatedAt: time.Now()}, nil).
		Run(func(args mock.Arguments) {
			m := args.Get(1).(*domain.ContactMessage)
			assert.Equal(t, "Jo Doe", m.Name)
			assert.Equal(t, "a@b.co", m.Email)
			assert.Equal(t, "Hi", m.Subject)
		})

	_, err := newContactUsecase(repo, new(MockMailer), usecase.ContactOptions{}).Submit(context.Background(), &domain.ContactMessage{
		Name: "  Jo Doe ", Email: " a@b.co ", Subject: " Hi ", Message: "1234567890",
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestSubmitTwiceStoresTwice(t *testing.T) {
	repo := memory.NewContactRepository()
	uc := newContactUsecase(repo, new(MockMailer), usecase.ContactOptions{})

	first, err := uc.Submit(context.Background(), validMessage())
	require.NoError(t, err)
	second, err := uc.Submit(context.Background(), validMessage())
	require.NoError(t, err)

	assert.NotEqual(t, first.Record.ID, second.Record.ID)
	assert.Equal(t, 2, repo.Len())
}

func TestHealthCheck(t *testing.T) {
	ok := domain.HealthCheckerFunc(func(context.Context) error { return nil })
	down := domain.HealthCheckerFunc(func(context.Context) error { return errors.New("dial tcp: refused") })

	status, healthy := usecase.NewHealthUsecase(map[string]domain.HealthChecker{"store": ok}).Check(context.Background())
	assert.True(t, healthy)
	assert.Equal(t, map[string]string{"status": "ok", "store": "ok"}, status)

	status, healthy = usecase.NewHealthUsecase(map[string]domain.HealthChecker{"store": ok, "redis": down}).Check(context.Background())
	assert.False(t, healthy)
	assert.Equal(t, "degraded", status["status"])
	assert.Equal(t, "unavailable", status["redis"])
}
