package metadata

import "strings"

// explorerPlaceholder is replaced with the transaction id in an anchor's
// explorer URL pattern.
const explorerPlaceholder = "${transactionId}"

// Transaction is the anchoring transaction of an event on the document's
// selected blockchain.
type Transaction struct {
	ID string

	// URL links to the transaction in a block explorer. It is empty when
	// the anchor has no explorer URL pattern.
	URL string
}

// Transaction returns the record of ev on the document's anchor chain.
// It returns false when the document has no anchor or the event has no
// record for it.
func (d *Document) Transaction(ev Event) (Transaction, bool) {
	if d.anchor == nil {
		return Transaction{}, false
	}
	for _, rec := range ev.Transactions {
		if rec.BlockchainID != d.anchor.ID {
			continue
		}
		tx := Transaction{ID: rec.TransactionID}
		if d.anchor.ExplorerURLPattern != "" {
			tx.URL = strings.Replace(d.anchor.ExplorerURLPattern, explorerPlaceholder, rec.TransactionID, 1)
		}
		return tx, true
	}
	return Transaction{}, false
}
