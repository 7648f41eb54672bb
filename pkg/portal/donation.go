package portal

import "time"

// Donation is a recorded receipt of an externally-submitted transaction. The
// portal never moves funds; donations form an append-only ledger and are never
// updated after creation.
type Donation struct {
	ID            int64     `json:"id"`
	ReceiptID     string    `json:"receipt_id"`
	AmountUSD     string    `json:"amount_usd"`
	Currency      string    `json:"currency"`
	TokenAmount   string    `json:"token_amount"`
	TokenSymbol   string    `json:"token_symbol"`
	ChainID       int64     `json:"chain_id"`
	TxHash        string    `json:"tx_hash"`
	WalletAddress string    `json:"wallet_address"`
	DisplayName   string    `json:"display_name,omitempty"`
	Message       string    `json:"message,omitempty"`
	IsAnonymous   bool      `json:"is_anonymous"`
	ShowOnWall    bool      `json:"show_on_wall"`
	CreatedAt     time.Time `json:"created_at"`
}
