package domain

// PollParticipant is one validator eligible to vote in a poll.
type PollParticipant struct {
	Address string `json:"address"`
	Power   int64  `json:"power"`
	Active  bool   `json:"active"`
}

// Poll is one hub validator vote round confirming an external-chain
// event.
type Poll struct {
	ID                 string            `json:"poll_id"`
	Chain              string            `json:"chain"`
	TxID               string            `json:"tx_id"`
	Status             string            `json:"status"`
	Height             int64             `json:"height"`
	Timestamp          int64             `json:"timestamp"`
	Votes              map[string]bool   `json:"votes"`
	ConfirmationEvents []RawEvent        `json:"confirmation_events,omitempty"`
	Participants       []PollParticipant `json:"participants,omitempty"`
}

// TotalParticipantsPower sums the voting power of every listed
// participant. Inactive validators are counted too, matching the
// upstream explorer's effective behavior; callers wanting an
// active-only total must confirm that change of contract upstream
// first.
func (p Poll) TotalParticipantsPower() int64 {
	var total int64
	for _, part := range p.Participants {
		total += part.Power
	}
	return total
}
