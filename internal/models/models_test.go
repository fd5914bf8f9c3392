package models

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/ruralpay/ledgersim/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestNewCustomer(t *testing.T) {
	t.Run("valid customer", func(t *testing.T) {
		c, err := NewCustomer("cust_1", "John Doe", "123 Main St", "john@example.com", "555-0123", now)
		require.NoError(t, err)
		assert.Equal(t, "cust_1", c.CustomerID)
		assert.Equal(t, now, c.CreatedAt)
	})

	t.Run("email without separator", func(t *testing.T) {
		_, err := NewCustomer("cust_1", "John Doe", "123 Main St", "john.example.com", "555-0123", now)
		require.Error(t, err)

		var argErr *apperrors.InvalidArgumentError
		require.True(t, errors.As(err, &argErr))
		assert.Equal(t, "email", argErr.Field)
	})
}

func TestNewAccount(t *testing.T) {
	t.Run("defaults to active", func(t *testing.T) {
		a, err := NewAccount("acc_1", "cust_1", AccountTypeChecking, decimal.NewFromInt(1000), "USD", now)
		require.NoError(t, err)
		assert.Equal(t, AccountStatusActive, a.Status)
		assert.True(t, a.IsActive())
	})

	t.Run("zero balance allowed", func(t *testing.T) {
		_, err := NewAccount("acc_1", "cust_1", AccountTypeSavings, decimal.Zero, "USD", now)
		assert.NoError(t, err)
	})

	t.Run("negative balance rejected", func(t *testing.T) {
		_, err := NewAccount("acc_1", "cust_1", AccountTypeSavings, decimal.NewFromInt(-1), "USD", now)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	})

	t.Run("unknown account type rejected", func(t *testing.T) {
		_, err := NewAccount("acc_1", "cust_1", AccountType("current"), decimal.Zero, "USD", now)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	})
}

func TestAccount_DebitCredit(t *testing.T) {
	a, err := NewAccount("acc_1", "cust_1", AccountTypeChecking, decimal.NewFromInt(100), "USD", now)
	require.NoError(t, err)

	require.NoError(t, a.Debit(decimal.NewFromInt(100)))
	assert.True(t, a.Balance.IsZero())

	err = a.Debit(decimal.RequireFromString("0.01"))
	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
	assert.True(t, a.Balance.IsZero(), "failed debit must not touch the balance")

	a.Credit(decimal.RequireFromString("10.50"))
	assert.Equal(t, "10.5", a.Balance.String())
}

func TestNewTransaction(t *testing.T) {
	cases := []struct {
		name    string
		amount  decimal.Decimal
		wantErr bool
	}{
		{"positive amount", decimal.NewFromInt(100), false},
		{"zero amount", decimal.Zero, true},
		{"negative amount", decimal.NewFromInt(-10), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx, err := NewTransaction("tx_1", "acc_1", "acc_2", tc.amount, "USD", "", now)
			if tc.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
				assert.Nil(t, tx)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, StatusPending, tx.Status)
			assert.Nil(t, tx.ProcessedAt)
			assert.Nil(t, tx.FraudScore)
		})
	}
}

func TestTransaction_StateMachine(t *testing.T) {
	newPending := func(t *testing.T) *Transaction {
		tx, err := NewTransaction("tx_1", "acc_1", "acc_2", decimal.NewFromInt(5), "USD", "", now)
		require.NoError(t, err)
		return tx
	}

	t.Run("pending to cleared", func(t *testing.T) {
		tx := newPending(t)
		require.NoError(t, tx.MarkCleared(now))
		assert.Equal(t, StatusCleared, tx.Status)
		require.NotNil(t, tx.ProcessedAt)
		assert.Equal(t, now, *tx.ProcessedAt)
	})

	t.Run("cleared cannot be cleared again", func(t *testing.T) {
		tx := newPending(t)
		require.NoError(t, tx.MarkCleared(now))

		err := tx.MarkCleared(now.Add(time.Hour))
		var stateErr *apperrors.InvalidStateError
		require.True(t, errors.As(err, &stateErr))
		assert.Equal(t, "pending", stateErr.Required)
		assert.Equal(t, "cleared", stateErr.Actual)
		assert.Equal(t, now, *tx.ProcessedAt)
	})

	t.Run("flagging is idempotent", func(t *testing.T) {
		tx := newPending(t)
		changed, err := tx.MarkFlagged()
		require.NoError(t, err)
		assert.True(t, changed)

		changed, err = tx.MarkFlagged()
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, StatusFlagged, tx.Status)
	})

	t.Run("flagged cannot be cleared", func(t *testing.T) {
		tx := newPending(t)
		_, err := tx.MarkFlagged()
		require.NoError(t, err)
		assert.ErrorIs(t, tx.MarkCleared(now), apperrors.ErrInvalidState)
	})

	t.Run("cleared cannot be flagged", func(t *testing.T) {
		tx := newPending(t)
		require.NoError(t, tx.MarkCleared(now))
		_, err := tx.MarkFlagged()
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
		assert.Equal(t, StatusCleared, tx.Status)
	})

	t.Run("rejected is terminal", func(t *testing.T) {
		tx := newPending(t)
		tx.Status = StatusRejected
		assert.ErrorIs(t, tx.CanTransitionTo(StatusCleared), apperrors.ErrInvalidState)
		assert.ErrorIs(t, tx.CanTransitionTo(StatusFlagged), apperrors.ErrInvalidState)
	})
}

func TestTransaction_SetFraudScore(t *testing.T) {
	tx, err := NewTransaction("tx_1", "acc_1", "acc_2", decimal.NewFromInt(5), "USD", "", now)
	require.NoError(t, err)

	for _, score := range []float64{0, 0.5, 1} {
		require.NoError(t, tx.SetFraudScore(score))
		assert.Equal(t, score, *tx.FraudScore)
	}

	for _, score := range []float64{-0.01, 1.01, math.NaN(), math.Inf(1)} {
		assert.ErrorIs(t, tx.SetFraudScore(score), apperrors.ErrInvalidArgument)
	}
	assert.Equal(t, 1.0, *tx.FraudScore, "rejected scores leave the previous value")
}

func TestTransaction_Clone(t *testing.T) {
	tx, err := NewTransaction("tx_1", "acc_1", "acc_2", decimal.NewFromInt(5), "USD", "", now)
	require.NoError(t, err)
	require.NoError(t, tx.SetFraudScore(0.3))

	c := tx.Clone()
	*c.FraudScore = 0.9
	assert.Equal(t, 0.3, *tx.FraudScore)
}

func TestTransactionStatus_JSON(t *testing.T) {
	t.Run("known status", func(t *testing.T) {
		var tx Transaction
		err := json.Unmarshal([]byte(`{"transaction_id":"t","status":"flagged","amount":12.5}`), &tx)
		require.NoError(t, err)
		assert.Equal(t, StatusFlagged, tx.Status)
		assert.Equal(t, "12.5", tx.Amount.String())
	})

	t.Run("unknown status", func(t *testing.T) {
		var tx Transaction
		err := json.Unmarshal([]byte(`{"transaction_id":"t","status":"settled"}`), &tx)
		assert.Error(t, err)
	})
}
