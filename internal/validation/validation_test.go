package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/ruralpay/ledgersim/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TestStruct struct {
	Name   string          `json:"name" validate:"required,min=2"`
	Email  string          `json:"email" validate:"required,contains=@"`
	Amount decimal.Decimal `json:"amount" validate:"gt=0"`
	Score  *float64        `json:"score" validate:"omitempty,gte=0,lte=1"`
}

func validStruct() TestStruct {
	return TestStruct{
		Name:   "John Doe",
		Email:  "john@example.com",
		Amount: decimal.NewFromInt(100),
	}
}

func TestValidationHelper_ValidateStruct(t *testing.T) {
	vh := NewValidationHelper()

	t.Run("valid struct", func(t *testing.T) {
		valid := validStruct()
		assert.NoError(t, vh.ValidateStruct(&valid))
	})

	t.Run("invalid struct - multiple fields", func(t *testing.T) {
		invalid := TestStruct{
			Name:   "J",
			Email:  "no-at-sign",
			Amount: decimal.Zero,
		}

		err := vh.ValidateStruct(&invalid)
		require.Error(t, err)

		validationErrors, ok := err.(validator.ValidationErrors)
		require.True(t, ok)
		assert.Len(t, validationErrors, 3)
	})

	t.Run("fields are reported by json name", func(t *testing.T) {
		invalid := validStruct()
		invalid.Email = "invalid-email"

		err := vh.ValidateStruct(&invalid)
		validationErrors, ok := err.(validator.ValidationErrors)
		require.True(t, ok)
		require.Len(t, validationErrors, 1)
		assert.Equal(t, "email", validationErrors[0].Field())
		assert.Equal(t, "contains", validationErrors[0].Tag())
	})
}

func TestValidationHelper_Decimal(t *testing.T) {
	vh := NewValidationHelper()

	cases := []struct {
		name    string
		amount  decimal.Decimal
		wantErr bool
	}{
		{"positive", decimal.RequireFromString("0.01"), false},
		{"zero", decimal.Zero, true},
		{"negative", decimal.NewFromInt(-5), true},
		{"tiny positive", decimal.RequireFromString("1e-400"), false},
		{"tiny negative", decimal.RequireFromString("-1e-400"), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := validStruct()
			s.Amount = tc.amount
			err := vh.Check(&s)
			if tc.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidationHelper_Check(t *testing.T) {
	vh := NewValidationHelper()

	t.Run("score out of range", func(t *testing.T) {
		s := validStruct()
		score := 1.5
		s.Score = &score

		err := vh.Check(&s)
		require.Error(t, err)

		var argErr *apperrors.InvalidArgumentError
		require.True(t, errors.As(err, &argErr))
		assert.Equal(t, "score", argErr.Field)
		assert.Equal(t, "lte", argErr.Rule)
	})

	t.Run("nil score is skipped", func(t *testing.T) {
		s := validStruct()
		assert.NoError(t, vh.Check(&s))
	})
}
