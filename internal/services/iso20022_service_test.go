package services

import (
	"testing"
	"time"

	"github.com/ruralpay/ledgersim/internal/apperrors"
	"github.com/ruralpay/ledgersim/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCreditTransfer() CreditTransfer {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return CreditTransfer{
		MessageID:        "7f1c2d3e-0000-4000-8000-000000000001",
		TransactionID:    "tx123",
		Amount:           decimal.RequireFromString("100.50"),
		Currency:         "USD",
		DebtorName:       "John Doe",
		DebtorAgentBIC:   "BANKUS33",
		CreditorName:     "Jane Roe",
		CreditorAgentBIC: "BANKGB22",
		CreatedAt:        at,
		SettlementDate:   at,
	}
}

func TestISO20022Service_CreatePacs008(t *testing.T) {
	service := NewISO20022Service()

	t.Run("create valid pacs008", func(t *testing.T) {
		ct := testCreditTransfer()

		doc, err := service.CreatePacs008(ct)
		require.NoError(t, err)
		assert.Equal(t, "7f1c2d3e000040008000000000000001", string(doc.GrpHdr.MsgId))
		assert.Equal(t, "1", string(doc.GrpHdr.NbOfTxs))
		assert.Equal(t, "USD", string(doc.GrpHdr.TtlIntrBkSttlmAmt.Ccy))
		assert.Equal(t, 100.50, doc.GrpHdr.TtlIntrBkSttlmAmt.Value)
		require.Len(t, doc.CdtTrfTxInf, 1)
		assert.Equal(t, ct.TransactionID, string(*doc.CdtTrfTxInf[0].PmtId.InstrId))
		assert.Equal(t, ct.TransactionID, string(doc.CdtTrfTxInf[0].PmtId.EndToEndId))
		assert.Equal(t, "BANKUS33", string(*doc.CdtTrfTxInf[0].DbtrAgt.FinInstnId.BICFI))
		assert.Equal(t, "BANKGB22", string(*doc.CdtTrfTxInf[0].CdtrAgt.FinInstnId.BICFI))
		assert.Equal(t, "Jane Roe", string(*doc.CdtTrfTxInf[0].Cdtr.Nm))
	})

	t.Run("non-positive amount", func(t *testing.T) {
		ct := testCreditTransfer()
		ct.Amount = decimal.Zero
		_, err := service.CreatePacs008(ct)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	})

	t.Run("bad currency", func(t *testing.T) {
		ct := testCreditTransfer()
		ct.Currency = "DOLLARS"
		_, err := service.CreatePacs008(ct)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	})
}

func TestISO20022Service_CreatePacs002(t *testing.T) {
	service := NewISO20022Service()

	t.Run("create valid pacs002", func(t *testing.T) {
		doc, err := service.CreatePacs002("msg1", "tx123", "ACSC", time.Now())
		require.NoError(t, err)
		assert.Equal(t, "msg1", string(doc.GrpHdr.MsgId))
		require.Len(t, doc.TxInfAndSts, 1)
		assert.Equal(t, "tx123", string(*doc.TxInfAndSts[0].OrgnlInstrId))
		assert.Equal(t, "tx123", string(*doc.TxInfAndSts[0].OrgnlEndToEndId))
		assert.Equal(t, "ACSC", string(*doc.TxInfAndSts[0].TxSts))
	})

	t.Run("missing status", func(t *testing.T) {
		_, err := service.CreatePacs002("msg1", "tx123", "", time.Now())
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	})
}

func TestISO20022Service_ConvertToXML(t *testing.T) {
	service := NewISO20022Service()

	t.Run("convert to XML", func(t *testing.T) {
		doc, err := service.CreatePacs008(testCreditTransfer())
		require.NoError(t, err)

		xmlString, err := service.ConvertToXML(doc)
		assert.NoError(t, err)
		assert.Contains(t, xmlString, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>")
		assert.Contains(t, xmlString, "tx123")
		assert.Contains(t, xmlString, "USD")
	})

	t.Run("convert invalid struct", func(t *testing.T) {
		invalidStruct := make(chan int)

		xmlString, err := service.ConvertToXML(invalidStruct)
		assert.Error(t, err)
		assert.Empty(t, xmlString)
		assert.Contains(t, err.Error(), "failed to marshal XML")
	})
}

func TestStatusReportCode(t *testing.T) {
	cases := map[models.TransactionStatus]string{
		models.StatusPending:  "PDNG",
		models.StatusFlagged:  "PDNG",
		models.StatusCleared:  "ACSC",
		models.StatusRejected: "RJCT",
	}
	for status, want := range cases {
		got, err := StatusReportCode(status)
		require.NoError(t, err)
		assert.Equal(t, want, got, status)
	}

	_, err := StatusReportCode(models.TransactionStatus("settled"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestIsoID(t *testing.T) {
	assert.Equal(t, "abc", isoID("a-b-c"))
	assert.Len(t, isoID("0123456789012345678901234567890123456789"), 35)
}
