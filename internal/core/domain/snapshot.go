package domain

import "time"

// TransferSnapshot is the locally cached view of one transfer: the
// stage records fetched upstream plus the last resolved status. Steps
// themselves are never stored; they are recomputed from Records on
// every read.
type TransferSnapshot struct {
	TransferID       string           `json:"transfer_id"`
	Type             TransferType     `json:"type"`
	SourceChain      string           `json:"source_chain"`
	DestinationChain string           `json:"destination_chain"`
	Records          Records          `json:"records"`
	Status           SimplifiedStatus `json:"simplified_status"`
	UpdatedAt        time.Time        `json:"updated_at"`
}
