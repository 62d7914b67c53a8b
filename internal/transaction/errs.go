package transaction

import (
	"errors"
	"fmt"
)

var (
	// ErrTxNotFound is returned by a PrevTxProvider when no transaction is
	// known under the requested txid.
	ErrTxNotFound = errors.New("previous transaction not found")

	// ErrFeeNegative is returned when a transaction's outputs sum to more
	// than its inputs.
	ErrFeeNegative = errors.New("output is larger than input, which is not allowed")

	// ErrNotCoinbase is returned when a coinbase-only operation is called on
	// a transaction that does not match the coinbase input template.
	ErrNotCoinbase = errors.New("not a coinbase transaction")

	// ErrEmptyCoinbaseScript is returned when CoinbaseHeight is called on a
	// coinbase transaction whose input has no script bytes to read a
	// height from.
	ErrEmptyCoinbaseScript = errors.New("coinbase transaction has no script")

	// ErrPrevIndexOutOfRange is returned when a TxIn's PrevIndex does not
	// name an existing output on the transaction it points to.
	ErrPrevIndexOutOfRange = errors.New("previous index out of range for transaction outputs")
)

// ProviderError wraps a failure to fetch a previous transaction with the
// txid that was being looked up, so callers can log which input is
// unspendable without the provider re-stating it in every error string.
type ProviderError struct {
	TxId string
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("fetch prev tx %s: %v", e.TxId, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// TxIdMismatchError is returned when a fetched transaction's computed id
// does not match the txid it was looked up under, which would indicate a
// malicious or corrupt data source.
type TxIdMismatchError struct {
	Want string
	Got  string
}

func (e *TxIdMismatchError) Error() string {
	return fmt.Sprintf("prev tx id mismatch: got %s, want %s", e.Got, e.Want)
}
