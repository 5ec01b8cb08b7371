package domain

// StepID identifies one lifecycle stage of a transfer.
type StepID string

const (
	StepLink             StepID = "link"
	StepSend             StepID = "send"
	StepWrap             StepID = "wrap"
	StepErc20Transfer    StepID = "erc20_transfer"
	StepWrapped          StepID = "wrapped"
	StepErc20Transferred StepID = "erc20_transferred"
	StepConfirm          StepID = "confirm"
	StepVote             StepID = "vote"
	StepCommand          StepID = "command"
	StepIbcSend          StepID = "ibc_send"
	StepAxelarTransfer   StepID = "axelar_transfer"
	StepUnwrap           StepID = "unwrap"
)

// StepStatus is the state of one lifecycle step.
type StepStatus string

const (
	StepStatusSuccess StepStatus = "success"
	StepStatusPending StepStatus = "pending"
	StepStatusFailed  StepStatus = "failed"
)

// Step is one entry of a transfer's ordered lifecycle. Position is
// determined by the transfer type and the chain types of source and
// destination, never by record arrival order.
type Step struct {
	ID     StepID     `json:"id"`
	Title  string     `json:"title"`
	Status StepStatus `json:"status"`

	// TxHash is the transaction backing the step, when one is known.
	TxHash string `json:"tx_hash,omitempty"`

	// Chain attributes the step to an explorer. It can change between
	// the pending and success phases of the same step.
	Chain *ChainRef `json:"chain,omitempty"`
}

// SimplifiedStatus is the coarse status summarizing a transfer for
// list views.
type SimplifiedStatus string

const (
	StatusPending  SimplifiedStatus = "pending"
	StatusApproved SimplifiedStatus = "approved"
	StatusReceived SimplifiedStatus = "received"
	StatusFailed   SimplifiedStatus = "failed"
)

// Terminal reports whether the status can no longer change.
func (s SimplifiedStatus) Terminal() bool {
	return s == StatusReceived || s == StatusFailed
}

// TransferSummary is the aggregate the presentation layer renders per row.
type TransferSummary struct {
	Status SimplifiedStatus `json:"simplified_status"`

	// TimeSpent is the elapsed seconds between the origin send and the
	// terminal step. It is set only for terminal statuses; reporting it
	// earlier would read as a final duration.
	TimeSpent *int64 `json:"time_spent,omitempty"`
}
