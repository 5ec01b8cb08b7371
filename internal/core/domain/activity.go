package domain

import "github.com/shopspring/decimal"

// RawEvent is a flattened vote/confirmation event carried on an
// activity: the event name plus its decoded fields.
type RawEvent map[string]any

// Activity is one normalized action derived from a raw transaction's
// messages and logs. Activities are pure projections: recomputed per
// query, never persisted.
type Activity struct {
	Type      string           `json:"type,omitempty"`
	Sender    string           `json:"sender,omitempty"`
	Recipient any              `json:"recipient,omitempty"` // string or de-duplicated []string
	Signer    string           `json:"signer,omitempty"`
	Chain     string           `json:"chain,omitempty"`
	TxID      string           `json:"tx_id,omitempty"`
	Status    string           `json:"status,omitempty"`
	PollID    string           `json:"poll_id,omitempty"`
	Asset     *AssetRef        `json:"asset,omitempty"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	Symbol    string           `json:"symbol,omitempty"`
	Denom     string           `json:"denom,omitempty"`
	Events    []RawEvent       `json:"events,omitempty"`
	Failed    bool             `json:"failed,omitempty"`

	// Fields carries attributes that did not map to a named column,
	// produced by the generic log-event fallback.
	Fields map[string]any `json:"fields,omitempty"`
}
