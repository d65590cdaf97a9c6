package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransaction_IsParty(t *testing.T) {
	txn := &Transaction{BuyerID: "buyer-1", SellerID: "seller-1"}
	require.True(t, txn.IsParty("buyer-1"))
	require.True(t, txn.IsParty("seller-1"))
	require.False(t, txn.IsParty("someone-else"))

	var nilTxn *Transaction
	require.False(t, nilTxn.IsParty("buyer-1"))
}

func TestTransaction_CounterpartyOf(t *testing.T) {
	txn := &Transaction{BuyerID: "buyer-1", SellerID: "seller-1"}
	require.Equal(t, "seller-1", txn.CounterpartyOf("buyer-1"))
	require.Equal(t, "buyer-1", txn.CounterpartyOf("seller-1"))
}
