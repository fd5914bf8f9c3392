package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ruralpay/ledgersim/internal/apperrors"
	"github.com/ruralpay/ledgersim/internal/audit"
	"github.com/ruralpay/ledgersim/internal/models"
	"github.com/ruralpay/ledgersim/internal/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LedgerService owns every state change on the store: transaction creation,
// clearing, fraud flagging and SWIFT message bookkeeping.
type LedgerService struct {
	store *store.Store
	queue SettlementQueue
	iso   *ISO20022Service
	audit *audit.AuditLogger
	log   *zap.Logger
	now   func() time.Time
	newID func() string
}

// NewLedgerService wires the engine. queue may be nil, in which case nothing is published.
func NewLedgerService(st *store.Store, queue SettlementQueue, log *zap.Logger) *LedgerService {
	if log == nil {
		log = zap.NewNop()
	}
	return &LedgerService{
		store: st,
		queue: queue,
		iso:   NewISO20022Service(),
		audit: audit.NewAuditLogger(log),
		log:   log.Named("ledger"),
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

// CreateTransaction records a pending transfer. Balances are untouched until clearing.
func (ls *LedgerService) CreateTransaction(fromAccountID, toAccountID string, amount decimal.Decimal, currency, description string) (models.Transaction, error) {
	if !amount.IsPositive() {
		return models.Transaction{}, apperrors.InvalidArgument("amount", "must be greater than zero")
	}

	var created models.Transaction
	err := ls.store.Write(func(tx *store.Tx) error {
		from, err := tx.Account(fromAccountID)
		if err != nil {
			return err
		}
		to, err := tx.Account(toAccountID)
		if err != nil {
			return err
		}
		if from.AccountID == to.AccountID {
			return apperrors.InvalidArgument("to_account_id", "must differ from from_account_id")
		}
		if err := requireActive(from, to); err != nil {
			return err
		}
		if err := from.CheckFunds(amount); err != nil {
			return err
		}

		t, err := models.NewTransaction(ls.newID(), fromAccountID, toAccountID, amount, currency, description, ls.now().UTC())
		if err != nil {
			return err
		}
		if err := tx.InsertTransaction(t); err != nil {
			return err
		}
		created = t.Clone()
		return nil
	})
	if err != nil {
		ls.audit.LogError("", fromAccountID, err)
		return models.Transaction{}, err
	}

	ls.audit.LogOperation(created.TransactionID, fromAccountID, "CREATE_TRANSACTION",
		fmt.Sprintf("%s %s to %s", created.Amount.String(), created.Currency, toAccountID))
	return created, nil
}

// ClearTransaction moves funds and marks the transaction cleared in one
// critical section. Funds are checked again here because the balance may have
// moved since the transaction was created.
func (ls *LedgerService) ClearTransaction(ctx context.Context, transactionID string) (models.Transaction, error) {
	var cleared models.Transaction
	err := ls.store.Write(func(tx *store.Tx) error {
		t, err := tx.Transaction(transactionID)
		if err != nil {
			return err
		}
		if err := t.CanTransitionTo(models.StatusCleared); err != nil {
			return err
		}
		from, err := tx.Account(t.FromAccountID)
		if err != nil {
			return err
		}
		to, err := tx.Account(t.ToAccountID)
		if err != nil {
			return err
		}
		if err := requireActive(from, to); err != nil {
			return err
		}

		// Debit is the first mutation and fails without side effects.
		if err := from.Debit(t.Amount); err != nil {
			return err
		}
		to.Credit(t.Amount)
		if err := t.MarkCleared(ls.now().UTC()); err != nil {
			return err
		}
		cleared = t.Clone()
		return nil
	})
	if err != nil {
		ls.audit.LogError(transactionID, "", err)
		return models.Transaction{}, err
	}

	ls.audit.LogTransfer(cleared.TransactionID, cleared.FromAccountID, cleared.ToAccountID, cleared.Amount, string(cleared.Status))

	if ls.queue != nil {
		if err := ls.queue.EnqueueSettlement(ctx, cleared); err != nil {
			ls.log.Warn("Failed to queue transaction for settlement",
				zap.String("transaction_id", cleared.TransactionID), zap.Error(err))
		}
	}
	return cleared, nil
}

// FlagTransactionForFraud marks a pending transaction as flagged. Flagging an
// already flagged transaction succeeds without publishing again.
func (ls *LedgerService) FlagTransactionForFraud(ctx context.Context, transactionID string) (models.Transaction, error) {
	var (
		flagged models.Transaction
		changed bool
	)
	err := ls.store.Write(func(tx *store.Tx) error {
		t, err := tx.Transaction(transactionID)
		if err != nil {
			return err
		}
		changed, err = t.MarkFlagged()
		if err != nil {
			return err
		}
		flagged = t.Clone()
		return nil
	})
	if err != nil {
		ls.audit.LogError(transactionID, "", err)
		return models.Transaction{}, err
	}
	if !changed {
		return flagged, nil
	}

	ls.audit.LogOperation(flagged.TransactionID, flagged.FromAccountID, "FLAG_FOR_FRAUD", "status set to flagged")

	if ls.queue != nil {
		if err := ls.queue.EnqueueFraudReview(ctx, flagged); err != nil {
			ls.log.Warn("Failed to queue transaction for fraud review",
				zap.String("transaction_id", flagged.TransactionID), zap.Error(err))
		}
	}
	return flagged, nil
}

// SetFraudScore overwrites the score on a transaction in any status.
func (ls *LedgerService) SetFraudScore(transactionID string, score float64) (models.Transaction, error) {
	if err := models.ValidateFraudScore(score); err != nil {
		return models.Transaction{}, err
	}

	var updated models.Transaction
	err := ls.store.Write(func(tx *store.Tx) error {
		t, err := tx.Transaction(transactionID)
		if err != nil {
			return err
		}
		if err := t.SetFraudScore(score); err != nil {
			return err
		}
		updated = t.Clone()
		return nil
	})
	if err != nil {
		return models.Transaction{}, err
	}

	ls.audit.LogOperation(transactionID, "", "SET_FRAUD_SCORE", fmt.Sprintf("fraud_score=%v", score))
	return updated, nil
}

// LinkSwiftMessage points a transaction at an existing message. A message
// belongs to at most one transaction; relinking the same pair is a no-op.
func (ls *LedgerService) LinkSwiftMessage(transactionID, messageID string) (models.Transaction, error) {
	var linked models.Transaction
	err := ls.store.Write(func(tx *store.Tx) error {
		t, err := tx.Transaction(transactionID)
		if err != nil {
			return err
		}
		if _, err := tx.SwiftMessage(messageID); err != nil {
			return err
		}
		if err := linkMessage(tx, t, messageID); err != nil {
			return err
		}
		linked = t.Clone()
		return nil
	})
	if err != nil {
		return models.Transaction{}, err
	}

	ls.audit.LogOperation(transactionID, messageID, "LINK_SWIFT_MESSAGE", "swift message linked")
	return linked, nil
}

// CreateSwiftMessage stores a new unprocessed message under a generated id.
func (ls *LedgerService) CreateSwiftMessage(senderBIC, receiverBIC, messageType, content string) (models.SwiftMessage, error) {
	m, err := models.NewSwiftMessage(ls.newID(), senderBIC, receiverBIC, messageType, content, ls.now().UTC())
	if err != nil {
		return models.SwiftMessage{}, err
	}
	out := *m

	err = ls.store.Write(func(tx *store.Tx) error {
		return tx.InsertSwiftMessage(m)
	})
	if err != nil {
		return models.SwiftMessage{}, err
	}

	ls.audit.LogOperation("", out.MessageID, "CREATE_SWIFT_MESSAGE", out.MessageType)
	return out, nil
}

// IssueSettlementMessage renders a pacs.008 credit transfer for a pending or
// cleared transaction, stores it as a SWIFT message and links it.
func (ls *LedgerService) IssueSettlementMessage(transactionID, senderBIC, receiverBIC string) (models.SwiftMessage, models.Transaction, error) {
	if err := requireBICs(senderBIC, receiverBIC); err != nil {
		return models.SwiftMessage{}, models.Transaction{}, err
	}

	var (
		msg    models.SwiftMessage
		linked models.Transaction
	)
	err := ls.store.Write(func(tx *store.Tx) error {
		t, err := tx.Transaction(transactionID)
		if err != nil {
			return err
		}
		switch t.Status {
		case models.StatusPending, models.StatusCleared:
		case models.StatusFlagged, models.StatusRejected:
			return &apperrors.InvalidStateError{
				Kind:     apperrors.KindTransaction,
				ID:       t.TransactionID,
				Required: "pending or cleared",
				Actual:   string(t.Status),
			}
		default:
			return apperrors.InvalidArgument("status", fmt.Sprintf("unknown transaction status %q", t.Status))
		}

		now := ls.now().UTC()
		ct := CreditTransfer{
			MessageID:        ls.newID(),
			TransactionID:    t.TransactionID,
			Amount:           t.Amount,
			Currency:         t.Currency,
			DebtorName:       partyName(tx, t.FromAccountID),
			DebtorAgentBIC:   senderBIC,
			CreditorName:     partyName(tx, t.ToAccountID),
			CreditorAgentBIC: receiverBIC,
			CreatedAt:        now,
			SettlementDate:   now,
		}
		if t.ProcessedAt != nil {
			ct.SettlementDate = *t.ProcessedAt
		}

		doc, err := ls.iso.CreatePacs008(ct)
		if err != nil {
			return err
		}
		content, err := ls.iso.ConvertToXML(doc)
		if err != nil {
			return err
		}
		m, err := models.NewSwiftMessage(ct.MessageID, senderBIC, receiverBIC, MessageTypePacs008, content, now)
		if err != nil {
			return err
		}
		if err := tx.InsertSwiftMessage(m); err != nil {
			return err
		}
		// The message is brand new, so linking cannot collide.
		if err := linkMessage(tx, t, m.MessageID); err != nil {
			return err
		}
		msg = *m
		linked = t.Clone()
		return nil
	})
	if err != nil {
		ls.audit.LogError(transactionID, "", err)
		return models.SwiftMessage{}, models.Transaction{}, err
	}

	ls.audit.LogOperation(transactionID, msg.MessageID, "ISSUE_SETTLEMENT_MESSAGE", MessageTypePacs008)
	return msg, linked, nil
}

// IssueStatusReport renders a pacs.002 for the transaction's current status and
// stores it as an unlinked SWIFT message.
func (ls *LedgerService) IssueStatusReport(transactionID, senderBIC, receiverBIC string) (models.SwiftMessage, error) {
	if err := requireBICs(senderBIC, receiverBIC); err != nil {
		return models.SwiftMessage{}, err
	}

	var msg models.SwiftMessage
	err := ls.store.Write(func(tx *store.Tx) error {
		t, err := tx.Transaction(transactionID)
		if err != nil {
			return err
		}
		code, err := StatusReportCode(t.Status)
		if err != nil {
			return err
		}

		now := ls.now().UTC()
		id := ls.newID()
		doc, err := ls.iso.CreatePacs002(id, t.TransactionID, code, now)
		if err != nil {
			return err
		}
		content, err := ls.iso.ConvertToXML(doc)
		if err != nil {
			return err
		}
		m, err := models.NewSwiftMessage(id, senderBIC, receiverBIC, MessageTypePacs002, content, now)
		if err != nil {
			return err
		}
		if err := tx.InsertSwiftMessage(m); err != nil {
			return err
		}
		msg = *m
		return nil
	})
	if err != nil {
		return models.SwiftMessage{}, err
	}

	ls.audit.LogOperation(transactionID, msg.MessageID, "ISSUE_STATUS_REPORT", MessageTypePacs002)
	return msg, nil
}

func requireActive(accounts ...*models.Account) error {
	for _, a := range accounts {
		if !a.IsActive() {
			return &apperrors.InvalidStateError{
				Kind:     apperrors.KindAccount,
				ID:       a.AccountID,
				Required: string(models.AccountStatusActive),
				Actual:   string(a.Status),
			}
		}
	}
	return nil
}

func requireBICs(senderBIC, receiverBIC string) error {
	if senderBIC == "" {
		return apperrors.InvalidArgument("sender_bic", "is required")
	}
	if receiverBIC == "" {
		return apperrors.InvalidArgument("receiver_bic", "is required")
	}
	return nil
}

func linkMessage(tx *store.Tx, t *models.Transaction, messageID string) error {
	if t.SwiftMessageID != nil && *t.SwiftMessageID == messageID {
		return nil
	}

	var owner string
	tx.EachTransaction(func(other *models.Transaction) {
		if other.SwiftMessageID != nil && *other.SwiftMessageID == messageID {
			owner = other.TransactionID
		}
	})
	if owner != "" {
		return apperrors.InvalidArgument("message_id",
			fmt.Sprintf("swift message %s is already linked to transaction %s", messageID, owner))
	}

	id := messageID
	t.SwiftMessageID = &id
	return nil
}

// partyName resolves the customer name behind an account, falling back to the account id.
func partyName(tx *store.Tx, accountID string) string {
	a, err := tx.Account(accountID)
	if err != nil {
		return accountID
	}
	c, err := tx.Customer(a.CustomerID)
	if err != nil {
		return a.CustomerID
	}
	return c.Name
}
