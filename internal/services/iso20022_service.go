package services

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/moov-io/iso20022/pkg/common"
	"github.com/moov-io/iso20022/pkg/pacs_v08"
	"github.com/ruralpay/ledgersim/internal/apperrors"
	"github.com/ruralpay/ledgersim/internal/models"
	"github.com/shopspring/decimal"
)

const (
	MessageTypePacs008 = "pacs.008.001.08"
	MessageTypePacs002 = "pacs.002.001.08"
)

// CreditTransfer carries what a pacs.008 needs about one ledger transaction.
type CreditTransfer struct {
	MessageID        string
	TransactionID    string
	Amount           decimal.Decimal
	Currency         string
	DebtorName       string
	DebtorAgentBIC   string
	CreditorName     string
	CreditorAgentBIC string
	CreatedAt        time.Time
	SettlementDate   time.Time
}

type ISO20022Service struct{}

func NewISO20022Service() *ISO20022Service {
	return &ISO20022Service{}
}

// CreatePacs008 creates a pacs.008 FIToFICustomerCreditTransfer message
func (iso *ISO20022Service) CreatePacs008(ct CreditTransfer) (*pacs_v08.FIToFICustomerCreditTransferV08, error) {
	if !ct.Amount.IsPositive() {
		return nil, apperrors.InvalidArgument("amount", "must be greater than zero")
	}
	if len(ct.Currency) != 3 {
		return nil, apperrors.InvalidArgument("currency", "must be a three letter code")
	}

	creDtTm := ct.CreatedAt
	settlementDate := ct.SettlementDate
	amount := ct.Amount.InexactFloat64()
	txID := common.Max35Text(isoID(ct.TransactionID))

	doc := &pacs_v08.FIToFICustomerCreditTransferV08{
		GrpHdr: pacs_v08.GroupHeader93{
			MsgId:   common.Max35Text(isoID(ct.MessageID)),
			CreDtTm: common.ISODateTime(creDtTm),
			NbOfTxs: "1",
			TtlIntrBkSttlmAmt: &pacs_v08.ActiveCurrencyAndAmount{
				Ccy:   common.ActiveCurrencyCode(ct.Currency),
				Value: amount,
			},
			IntrBkSttlmDt: (*common.ISODate)(&settlementDate),
			SttlmInf: pacs_v08.SettlementInstruction7{
				SttlmMtd: "CLRG", // Clearing
			},
		},
		CdtTrfTxInf: []pacs_v08.CreditTransferTransaction39{
			{
				PmtId: pacs_v08.PaymentIdentification7{
					InstrId:    &[]common.Max35Text{txID}[0],
					EndToEndId: txID,
					TxId:       &[]common.Max35Text{txID}[0],
				},
				IntrBkSttlmAmt: pacs_v08.ActiveCurrencyAndAmount{
					Ccy:   common.ActiveCurrencyCode(ct.Currency),
					Value: amount,
				},
				IntrBkSttlmDt: (*common.ISODate)(&settlementDate),
				ChrgBr:        "SLEV",
				DbtrAgt:       agent(ct.DebtorAgentBIC),
				Dbtr: pacs_v08.PartyIdentification135{
					Nm: &[]common.Max140Text{common.Max140Text(ct.DebtorName)}[0],
				},
				CdtrAgt: agent(ct.CreditorAgentBIC),
				Cdtr: pacs_v08.PartyIdentification135{
					Nm: &[]common.Max140Text{common.Max140Text(ct.CreditorName)}[0],
				},
			},
		},
	}

	return doc, nil
}

// CreatePacs002 creates a pacs.002 payment status report
func (iso *ISO20022Service) CreatePacs002(messageID, transactionID, status string, createdAt time.Time) (*pacs_v08.FIToFIPaymentStatusReportV08, error) {
	if status == "" {
		return nil, apperrors.InvalidArgument("status", "status code is required")
	}
	txID := common.Max35Text(isoID(transactionID))

	doc := &pacs_v08.FIToFIPaymentStatusReportV08{
		GrpHdr: pacs_v08.GroupHeader53{
			MsgId:   common.Max35Text(isoID(messageID)),
			CreDtTm: common.ISODateTime(createdAt),
		},
		TxInfAndSts: []pacs_v08.PaymentTransaction80{
			{
				OrgnlInstrId:    &[]common.Max35Text{txID}[0],
				OrgnlEndToEndId: &[]common.Max35Text{txID}[0],
				OrgnlTxId:       &[]common.Max35Text{txID}[0],
				TxSts:           &[]pacs_v08.ExternalPaymentTransactionStatus1Code{pacs_v08.ExternalPaymentTransactionStatus1Code(status)}[0],
			},
		},
	}

	return doc, nil
}

// ConvertToXML converts ISO20022 document to XML string
func (iso *ISO20022Service) ConvertToXML(doc any) (string, error) {
	xmlData, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal XML: %w", err)
	}
	return xml.Header + string(xmlData), nil
}

// StatusReportCode maps a ledger status onto an ISO 20022 transaction status code.
func StatusReportCode(status models.TransactionStatus) (string, error) {
	switch status {
	case models.StatusPending, models.StatusFlagged:
		return "PDNG", nil
	case models.StatusCleared:
		return "ACSC", nil
	case models.StatusRejected:
		return "RJCT", nil
	default:
		return "", apperrors.InvalidArgument("status", fmt.Sprintf("unknown transaction status %q", status))
	}
}

// isoID fits an identifier into Max35Text. UUIDs lose their hyphens.
func isoID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 35 {
		id = id[:35]
	}
	return id
}

func agent(bic string) pacs_v08.BranchAndFinancialInstitutionIdentification6 {
	return pacs_v08.BranchAndFinancialInstitutionIdentification6{
		FinInstnId: pacs_v08.FinancialInstitutionIdentification18{
			BICFI: &[]common.BICFIDec2014Identifier{common.BICFIDec2014Identifier(bic)}[0],
		},
	}
}
