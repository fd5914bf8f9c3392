package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ruralpay/ledgersim/internal/apperrors"
	"github.com/ruralpay/ledgersim/internal/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TestStruct struct {
	Name  string `json:"name" validate:"required,min=2"`
	Email string `json:"email" validate:"required,email"`
}

func TestSendErrorResponse(t *testing.T) {
	t.Run("error response without validation errors", func(t *testing.T) {
		w := httptest.NewRecorder()

		SendErrorResponse(w, "Something went wrong", http.StatusInternalServerError, nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var response ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "Something went wrong", response.Error)
		assert.Nil(t, response.Details)
	})

	t.Run("error response with validation errors", func(t *testing.T) {
		validationErr := validation.NewValidationHelper().ValidateStruct(&TestStruct{Name: "J", Email: "invalid-email"})
		require.Error(t, validationErr)

		w := httptest.NewRecorder()
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, validationErr)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Contains(t, response.Details, "name")
		assert.Contains(t, response.Details, "email")
	})

	t.Run("non-validation error carries no details", func(t *testing.T) {
		w := httptest.NewRecorder()
		SendErrorResponse(w, "Invalid request", http.StatusBadRequest, errors.New("boom"))

		var response ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Nil(t, response.Details)
	})
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{apperrors.NotFound(apperrors.KindAccount, "a"), http.StatusNotFound, "not_found"},
		{&apperrors.InvalidStateError{Kind: apperrors.KindTransaction, ID: "t", Required: "pending", Actual: "cleared"}, http.StatusConflict, "invalid_state"},
		{&apperrors.AlreadyExistsError{Kind: apperrors.KindCustomer, ID: "c"}, http.StatusConflict, "already_exists"},
		{&apperrors.InsufficientFundsError{AccountID: "a"}, http.StatusUnprocessableEntity, "insufficient_funds"},
		{apperrors.InvalidArgument("amount", "bad"), http.StatusBadRequest, "invalid_argument"},
		{fmt.Errorf("%w: x", ErrUnknownTool), http.StatusNotFound, "unknown_tool"},
		{errors.New("disk full"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		status, code := StatusFor(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}

func TestSendDomainError(t *testing.T) {
	t.Run("insufficient funds details", func(t *testing.T) {
		w := httptest.NewRecorder()
		SendDomainError(w, &apperrors.InsufficientFundsError{
			AccountID: "acc_1",
			Balance:   decimal.NewFromInt(10),
			Amount:    decimal.NewFromInt(20),
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var response ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "insufficient_funds", response.Code)
		assert.Equal(t, "10", response.Details["balance"])
		assert.Equal(t, "20", response.Details["amount"])
	})

	t.Run("internal errors are not leaked", func(t *testing.T) {
		w := httptest.NewRecorder()
		SendDomainError(w, errors.New("pq: password authentication failed"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		var response ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "Internal server error", response.Error)
	})
}
