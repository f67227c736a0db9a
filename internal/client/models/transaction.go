package models

// MaxMetadataBytes bounds the optional OP_RETURN metadata of a transaction.
const MaxMetadataBytes = 80

// Transaction is a read-only snapshot of a backend transaction. The state
// is only ever advanced by the cluster; the client re-fetches and replaces,
// never mutates.
type Transaction struct {
	TxID       string `json:"txid"`
	State      string `json:"state"`
	Recipient  string `json:"recipient"`
	AmountSats int64  `json:"amount_sats"`
	FeeSats    int64  `json:"fee_sats"`
	Metadata   string `json:"metadata,omitempty"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// CreateTransactionRequest is the payload of POST /api/v1/transactions.
type CreateTransactionRequest struct {
	Recipient  string `json:"recipient"`
	AmountSats int64  `json:"amount_sats"`
	Metadata   string `json:"metadata,omitempty"`
}

// CreateTransactionResponse mirrors the created transaction snapshot.
type CreateTransactionResponse struct {
	TxID       string `json:"txid"`
	State      string `json:"state"`
	Recipient  string `json:"recipient"`
	AmountSats int64  `json:"amount_sats"`
	FeeSats    int64  `json:"fee_sats"`
	Metadata   string `json:"metadata,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// ListTransactionsResponse is the payload of GET /api/v1/transactions.
type ListTransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
	Total        int           `json:"total"`
}
