package services

import (
	"testing"
	"time"

	"github.com/ruralpay/ledgersim/internal/apperrors"
	"github.com/ruralpay/ledgersim/internal/models"
	"github.com/ruralpay/ledgersim/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryService_Customers(t *testing.T) {
	qs := NewQueryService(newTestStore(t))

	c, err := qs.GetCustomerDetails("cust_1")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", c.Name)

	_, err = qs.GetCustomerDetails("cust_missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	accounts, err := qs.GetCustomerAccounts("cust_1")
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "acc_1", accounts[0].AccountID)
	assert.Equal(t, "acc_3", accounts[1].AccountID)

	_, err = qs.GetCustomerAccounts("cust_missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestQueryService_CustomerWithoutAccounts(t *testing.T) {
	st := newTestStore(t)
	err := st.Write(func(tx *store.Tx) error {
		c, err := models.NewCustomer("cust_9", "No Accounts", "", "none@example.com", "", fixedNow)
		require.NoError(t, err)
		return tx.InsertCustomer(c)
	})
	require.NoError(t, err)

	accounts, err := NewQueryService(st).GetCustomerAccounts("cust_9")
	require.NoError(t, err)
	assert.NotNil(t, accounts)
	assert.Empty(t, accounts)
}

func TestQueryService_AccountTransactions(t *testing.T) {
	ls, qs := newTestLedger(t, nil)

	clock := fixedNow
	ls.now = func() time.Time { clock = clock.Add(time.Minute); return clock }

	out, err := ls.CreateTransaction("acc_1", "acc_2", decimal.NewFromInt(10), "USD", "")
	require.NoError(t, err)
	in, err := ls.CreateTransaction("acc_2", "acc_1", decimal.NewFromInt(5), "USD", "")
	require.NoError(t, err)

	txs, err := qs.GetAccountTransactions("acc_1")
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, out.TransactionID, txs[0].TransactionID)
	assert.Equal(t, in.TransactionID, txs[1].TransactionID)

	none, err := qs.GetAccountTransactions("acc_3")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = qs.GetAccountTransactions("acc_missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestQueryService_Lookups(t *testing.T) {
	ls, qs := newTestLedger(t, nil)
	tx, err := ls.CreateTransaction("acc_1", "acc_2", decimal.NewFromInt(10), "USD", "")
	require.NoError(t, err)

	got, err := qs.GetTransaction(tx.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, tx, got)

	status, err := qs.GetTransactionStatus(tx.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, status)

	_, err = qs.GetTransactionStatus("tx_missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = qs.GetSwiftMessage("msg_missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	b, err := qs.GetAccountBalance("acc_2")
	require.NoError(t, err)
	assert.True(t, b.Equal(decimal.NewFromInt(500)))

	_, err = qs.GetAccountBalance("acc_missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.Equal(t, store.Statistics{NumCustomers: 2, NumAccounts: 3, NumTransactions: 1}, qs.GetStatistics())
}
