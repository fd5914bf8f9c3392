package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ruralpay/ledgersim/internal/apperrors"
)

// ErrorResponse represents error response structure
type ErrorResponse struct {
	Error   string            `json:"error"`             // Error message
	Code    string            `json:"code,omitempty"`    // Error category
	Details map[string]string `json:"details,omitempty"` // Field or entity details
}

// SendErrorResponse sends a JSON error response
func SendErrorResponse(w http.ResponseWriter, message string, statusCode int, validationErr error) {
	errorResp := ErrorResponse{Error: message}

	var fieldErrs validator.ValidationErrors
	if errors.As(validationErr, &fieldErrs) {
		errorResp.Details = make(map[string]string)
		for _, err := range fieldErrs {
			errorResp.Details[err.Field()] = fmt.Sprintf("Field Validation Failed on '%s' tag", err.Tag())
		}
	}

	writeJSON(w, statusCode, errorResp)
}

// SendDomainError maps a ledger error onto its HTTP status and writes it.
func SendDomainError(w http.ResponseWriter, err error) {
	status, code := StatusFor(err)
	resp := ErrorResponse{Error: err.Error(), Code: code}

	var (
		notFound *apperrors.NotFoundError
		state    *apperrors.InvalidStateError
		funds    *apperrors.InsufficientFundsError
		arg      *apperrors.InvalidArgumentError
		exists   *apperrors.AlreadyExistsError
	)
	switch {
	case errors.As(err, &notFound):
		resp.Details = map[string]string{"kind": notFound.Kind, "id": notFound.ID}
	case errors.As(err, &state):
		resp.Details = map[string]string{"kind": state.Kind, "id": state.ID, "required": state.Required, "actual": state.Actual}
	case errors.As(err, &funds):
		resp.Details = map[string]string{"account_id": funds.AccountID, "balance": funds.Balance.String(), "amount": funds.Amount.String()}
	case errors.As(err, &arg):
		resp.Details = map[string]string{"field": arg.Field}
		if arg.Rule != "" {
			resp.Details["rule"] = arg.Rule
		}
	case errors.As(err, &exists):
		resp.Details = map[string]string{"kind": exists.Kind, "id": exists.ID}
	}

	if status == http.StatusInternalServerError {
		resp.Error = "Internal server error"
		resp.Details = nil
	}
	writeJSON(w, status, resp)
}

// StatusFor returns the HTTP status and error code for err.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrUnknownTool):
		return http.StatusNotFound, "unknown_tool"
	case errors.Is(err, apperrors.ErrInvalidState):
		return http.StatusConflict, "invalid_state"
	case errors.Is(err, apperrors.ErrAlreadyExists):
		return http.StatusConflict, "already_exists"
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity, "insufficient_funds"
	case errors.Is(err, apperrors.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// SendJSON writes v with the given status.
func SendJSON(w http.ResponseWriter, statusCode int, v any) {
	writeJSON(w, statusCode, v)
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}
