package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/ruralpay/ledgersim/internal/apperrors"
	"github.com/ruralpay/ledgersim/internal/models"
	"github.com/ruralpay/ledgersim/internal/validation"
	"github.com/shopspring/decimal"
)

// ToolType tells callers whether a tool can change ledger state.
type ToolType string

const (
	ToolRead  ToolType = "READ"
	ToolWrite ToolType = "WRITE"
)

// ErrUnknownTool is returned by Call for a name that is not registered.
var ErrUnknownTool = errors.New("unknown tool")

// ToolInfo describes a registered tool.
type ToolInfo struct {
	Name        string   `json:"name"`
	Type        ToolType `json:"type"`
	Description string   `json:"description"`
	Params      []string `json:"params"`
}

type tool struct {
	info   ToolInfo
	invoke func(ctx context.Context, args json.RawMessage) (any, error)
}

// Toolkit exposes the ledger and query operations as named tools that take
// JSON arguments.
type Toolkit struct {
	tools     map[string]tool
	validator *validation.ValidationHelper
}

type customerArgs struct {
	CustomerID string `json:"customer_id" validate:"required"`
}

type accountArgs struct {
	AccountID string `json:"account_id" validate:"required"`
}

type transactionArgs struct {
	TransactionID string `json:"transaction_id" validate:"required"`
}

type messageArgs struct {
	MessageID string `json:"message_id" validate:"required"`
}

type createTransactionArgs struct {
	FromAccountID string          `json:"from_account_id" validate:"required"`
	ToAccountID   string          `json:"to_account_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency" validate:"required,len=3"`
	Description   string          `json:"description"`
}

type fraudScoreArgs struct {
	TransactionID string   `json:"transaction_id" validate:"required"`
	FraudScore    *float64 `json:"fraud_score" validate:"required"`
}

type linkArgs struct {
	TransactionID string `json:"transaction_id" validate:"required"`
	MessageID     string `json:"message_id" validate:"required"`
}

type createSwiftMessageArgs struct {
	SenderBIC   string `json:"sender_bic" validate:"required"`
	ReceiverBIC string `json:"receiver_bic" validate:"required"`
	MessageType string `json:"message_type" validate:"required"`
	Content     string `json:"content"`
}

type issueMessageArgs struct {
	TransactionID string `json:"transaction_id" validate:"required"`
	SenderBIC     string `json:"sender_bic" validate:"required"`
	ReceiverBIC   string `json:"receiver_bic" validate:"required"`
}

// BalanceResult is returned by get_account_balance.
type BalanceResult struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
}

// StatusResult is returned by get_transaction_status.
type StatusResult struct {
	TransactionID string                   `json:"transaction_id"`
	Status        models.TransactionStatus `json:"status"`
}

// SettlementResult is returned by issue_settlement_message.
type SettlementResult struct {
	Message     models.SwiftMessage `json:"message"`
	Transaction models.Transaction  `json:"transaction"`
}

func NewToolkit(ledger *LedgerService, queries *QueryService) *Toolkit {
	tk := &Toolkit{
		tools:     make(map[string]tool),
		validator: validation.NewValidationHelper(),
	}

	tk.register(ToolInfo{Name: "get_customer_details", Type: ToolRead, Description: "Look up a customer by id", Params: []string{"customer_id"}},
		func(_ context.Context, raw json.RawMessage) (any, error) {
			args, err := bindArgs[customerArgs](tk.validator, raw)
			if err != nil {
				return nil, err
			}
			return queries.GetCustomerDetails(args.CustomerID)
		})

	tk.register(ToolInfo{Name: "get_customer_accounts", Type: ToolRead, Description: "List the accounts owned by a customer", Params: []string{"customer_id"}},
		func(_ context.Context, raw json.RawMessage) (any, error) {
			args, err := bindArgs[customerArgs](tk.validator, raw)
			if err != nil {
				return nil, err
			}
			return queries.GetCustomerAccounts(args.CustomerID)
		})

	tk.register(ToolInfo{Name: "get_account_balance", Type: ToolRead, Description: "Current balance of an account", Params: []string{"account_id"}},
		func(_ context.Context, raw json.RawMessage) (any, error) {
			args, err := bindArgs[accountArgs](tk.validator, raw)
			if err != nil {
				return nil, err
			}
			a, err := queries.GetAccount(args.AccountID)
			if err != nil {
				return nil, err
			}
			return BalanceResult{AccountID: a.AccountID, Balance: a.Balance, Currency: a.Currency}, nil
		})

	tk.register(ToolInfo{Name: "get_account_transactions", Type: ToolRead, Description: "List transactions where the account is sender or receiver", Params: []string{"account_id"}},
		func(_ context.Context, raw json.RawMessage) (any, error) {
			args, err := bindArgs[accountArgs](tk.validator, raw)
			if err != nil {
				return nil, err
			}
			return queries.GetAccountTransactions(args.AccountID)
		})

	tk.register(ToolInfo{Name: "get_transaction", Type: ToolRead, Description: "Look up a transaction by id", Params: []string{"transaction_id"}},
		func(_ context.Context, raw json.RawMessage) (any, error) {
			args, err := bindArgs[transactionArgs](tk.validator, raw)
			if err != nil {
				return nil, err
			}
			return queries.GetTransaction(args.TransactionID)
		})

	tk.register(ToolInfo{Name: "get_transaction_status", Type: ToolRead, Description: "Current status of a transaction", Params: []string{"transaction_id"}},
		func(_ context.Context, raw json.RawMessage) (any, error) {
			args, err := bindArgs[transactionArgs](tk.validator, raw)
			if err != nil {
				return nil, err
			}
			status, err := queries.GetTransactionStatus(args.TransactionID)
			if err != nil {
				return nil, err
			}
			return StatusResult{TransactionID: args.TransactionID, Status: status}, nil
		})

	tk.register(ToolInfo{Name: "get_swift_message", Type: ToolRead, Description: "Look up a SWIFT message by id", Params: []string{"message_id"}},
		func(_ context.Context, raw json.RawMessage) (any, error) {
			args, err := bindArgs[messageArgs](tk.validator, raw)
			if err != nil {
				return nil, err
			}
			return queries.GetSwiftMessage(args.MessageID)
		})

	tk.register(ToolInfo{Name: "get_statistics", Type: ToolRead, Description: "Entity counts across the ledger", Params: []string{}},
		func(_ context.Context, raw json.RawMessage) (any, error) {
			if _, err := bindArgs[struct{}](tk.validator, raw); err != nil {
				return nil, err
			}
			return queries.GetStatistics(), nil
		})

	tk.register(ToolInfo{Name: "create_transaction", Type: ToolWrite, Description: "Create a pending transfer between two accounts", Params: []string{"from_account_id", "to_account_id", "amount", "currency", "description"}},
		func(_ context.Context, raw json.RawMessage) (any, error) {
			args, err := bindArgs[createTransactionArgs](tk.validator, raw)
			if err != nil {
				return nil, err
			}
			return ledger.CreateTransaction(args.FromAccountID, args.ToAccountID, args.Amount, args.Currency, args.Description)
		})

	tk.register(ToolInfo{Name: "clear_transaction", Type: ToolWrite, Description: "Move funds for a pending transaction and mark it cleared", Params: []string{"transaction_id"}},
		func(ctx context.Context, raw json.RawMessage) (any, error) {
			args, err := bindArgs[transactionArgs](tk.validator, raw)
			if err != nil {
				return nil, err
			}
			return ledger.ClearTransaction(ctx, args.TransactionID)
		})

	tk.register(ToolInfo{Name: "flag_transaction_for_fraud", Type: ToolWrite, Description: "Flag a pending transaction for fraud review", Params: []string{"transaction_id"}},
		func(ctx context.Context, raw json.RawMessage) (any, error) {
			args, err := bindArgs[transactionArgs](tk.validator, raw)
			if err != nil {
				return nil, err
			}
			return ledger.FlagTransactionForFraud(ctx, args.TransactionID)
		})

	tk.register(ToolInfo{Name: "set_fraud_score", Type: ToolWrite, Description: "Record a fraud score between 0 and 1", Params: []string{"transaction_id", "fraud_score"}},
		func(_ context.Context, raw json.RawMessage) (any, error) {
			args, err := bindArgs[fraudScoreArgs](tk.validator, raw)
			if err != nil {
				return nil, err
			}
			return ledger.SetFraudScore(args.TransactionID, *args.FraudScore)
		})

	tk.register(ToolInfo{Name: "link_swift_message", Type: ToolWrite, Description: "Attach an existing SWIFT message to a transaction", Params: []string{"transaction_id", "message_id"}},
		func(_ context.Context, raw json.RawMessage) (any, error) {
			args, err := bindArgs[linkArgs](tk.validator, raw)
			if err != nil {
				return nil, err
			}
			return ledger.LinkSwiftMessage(args.TransactionID, args.MessageID)
		})

	tk.register(ToolInfo{Name: "create_swift_message", Type: ToolWrite, Description: "Store a new SWIFT message", Params: []string{"sender_bic", "receiver_bic", "message_type", "content"}},
		func(_ context.Context, raw json.RawMessage) (any, error) {
			args, err := bindArgs[createSwiftMessageArgs](tk.validator, raw)
			if err != nil {
				return nil, err
			}
			return ledger.CreateSwiftMessage(args.SenderBIC, args.ReceiverBIC, args.MessageType, args.Content)
		})

	tk.register(ToolInfo{Name: "issue_settlement_message", Type: ToolWrite, Description: "Render a pacs.008 credit transfer for a transaction and link it", Params: []string{"transaction_id", "sender_bic", "receiver_bic"}},
		func(_ context.Context, raw json.RawMessage) (any, error) {
			args, err := bindArgs[issueMessageArgs](tk.validator, raw)
			if err != nil {
				return nil, err
			}
			msg, tx, err := ledger.IssueSettlementMessage(args.TransactionID, args.SenderBIC, args.ReceiverBIC)
			if err != nil {
				return nil, err
			}
			return SettlementResult{Message: msg, Transaction: tx}, nil
		})

	tk.register(ToolInfo{Name: "issue_status_report", Type: ToolWrite, Description: "Render a pacs.002 status report for a transaction", Params: []string{"transaction_id", "sender_bic", "receiver_bic"}},
		func(_ context.Context, raw json.RawMessage) (any, error) {
			args, err := bindArgs[issueMessageArgs](tk.validator, raw)
			if err != nil {
				return nil, err
			}
			return ledger.IssueStatusReport(args.TransactionID, args.SenderBIC, args.ReceiverBIC)
		})

	return tk
}

func (tk *Toolkit) register(info ToolInfo, invoke func(ctx context.Context, args json.RawMessage) (any, error)) {
	tk.tools[info.Name] = tool{info: info, invoke: invoke}
}

// Tools lists every registered tool sorted by name.
func (tk *Toolkit) Tools() []ToolInfo {
	out := make([]ToolInfo, 0, len(tk.tools))
	for _, t := range tk.tools {
		out = append(out, t.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup returns the description of a single tool.
func (tk *Toolkit) Lookup(name string) (ToolInfo, bool) {
	t, ok := tk.tools[name]
	return t.info, ok
}

// Call runs the named tool with JSON arguments. Empty args are treated as {}.
func (tk *Toolkit) Call(ctx context.Context, name string, args json.RawMessage) (any, error) {
	t, ok := tk.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return t.invoke(ctx, args)
}

// bindArgs decodes raw into T, rejecting unknown fields, then validates it.
func bindArgs[T any](v *validation.ValidationHelper, raw json.RawMessage) (T, error) {
	var args T
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = json.RawMessage("{}")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&args); err != nil {
		return args, apperrors.InvalidArgument("arguments", err.Error())
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return args, apperrors.InvalidArgument("arguments", "must be a single JSON object")
	}
	if err := v.Check(&args); err != nil {
		return args, err
	}
	return args, nil
}
