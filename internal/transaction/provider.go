package transaction

// PrevTxProvider abstracts lookup of a previous transaction by its txid,
// the one piece of external I/O a legacy transaction needs to compute its
// signature hash or verify an input. TxFetcher is the production
// implementation (blockstream.info over HTTP, with a disk cache);
// FixtureProvider lets tests inject canned transactions instead of hitting
// the network.
type PrevTxProvider interface {
	Fetch(txid string, testnet bool) (*Tx, error)
}

// FixtureProvider is an in-memory PrevTxProvider, keyed by txid, for use in
// tests and anywhere a previous transaction is already known rather than
// needing to be looked up.
type FixtureProvider struct {
	txs map[string]*Tx
}

// NewFixtureProvider builds a FixtureProvider from a set of known
// transactions, keying each one by its own Id().
func NewFixtureProvider(txs ...*Tx) (*FixtureProvider, error) {
	p := &FixtureProvider{txs: make(map[string]*Tx, len(txs))}
	for _, tx := range txs {
		if err := p.Add(tx); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Add registers tx under its own txid, overwriting any prior entry.
func (p *FixtureProvider) Add(tx *Tx) error {
	id, err := tx.Id()
	if err != nil {
		return err
	}
	p.txs[id] = tx
	return nil
}

func (p *FixtureProvider) Fetch(txid string, testnet bool) (*Tx, error) {
	tx, ok := p.txs[txid]
	if !ok {
		return nil, &ProviderError{TxId: txid, Err: ErrTxNotFound}
	}
	tx.Testnet = testnet
	return tx, nil
}
