package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"gw-transaction-view/internal/models"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) CreateTx(ctx context.Context, tx pgx.Tx, user *models.User) (*models.User, error) {
	args := m.Called(ctx, tx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) GetUserAccounts(ctx context.Context, userID uuid.UUID) ([]models.KnownAccount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.KnownAccount), args.Error(1)
}

func (m *MockAccountRepo) Create(ctx context.Context, acc *models.KnownAccount) (*models.KnownAccount, error) {
	args := m.Called(ctx, acc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.KnownAccount), args.Error(1)
}

func (m *MockAccountRepo) CreateTx(ctx context.Context, tx pgx.Tx, acc *models.KnownAccount) error {
	args := m.Called(ctx, tx, acc)
	return args.Error(0)
}

type MockRecordRepo struct {
	mock.Mock
}

func (m *MockRecordRepo) GetByID(ctx context.Context, userID uuid.UUID, recordID string) (*models.RawRecord, error) {
	args := m.Called(ctx, userID, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RawRecord), args.Error(1)
}

func (m *MockRecordRepo) GetUserRecords(ctx context.Context, userID uuid.UUID, from, to time.Time, limit, offset int) ([]models.RawRecord, error) {
	args := m.Called(ctx, userID, from, to, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RawRecord), args.Error(1)
}

func (m *MockRecordRepo) CountUserRecords(ctx context.Context, userID uuid.UUID, from, to time.Time) (int, error) {
	args := m.Called(ctx, userID, from, to)
	return args.Int(0), args.Error(1)
}

func (m *MockRecordRepo) Upsert(ctx context.Context, userID uuid.UUID, raw *models.RawRecord) error {
	args := m.Called(ctx, userID, raw)
	return args.Error(0)
}

type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(nil)
}

type MockKafkaProducer struct {
	mock.Mock
}

func (m *MockKafkaProducer) SendAnomalyEvent(ctx context.Context, event models.NormalizationAnomalyEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockKafkaProducer) Close() error {
	args := m.Called()
	return args.Error(0)
}
