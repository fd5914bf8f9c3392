package services

import (
	"context"

	"github.com/ruralpay/ledgersim/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockSettlementQueue struct {
	mock.Mock
}

func (m *MockSettlementQueue) EnqueueSettlement(ctx context.Context, tx models.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockSettlementQueue) EnqueueFraudReview(ctx context.Context, tx models.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
