package lifecycle

import (
	"github.com/crossscan/crossscan/internal/core/domain"
)

// Aggregate reduces a transfer's step list and terminal flags into one
// simplified status plus the elapsed-time metric for list views.
//
// Precedence, first match wins: an upstream failed flag or a failed
// step → failed; destination step success → received; command or vote
// success while the destination step is still pending → approved;
// otherwise pending.
func Aggregate(rec domain.Records, steps []domain.Step) domain.TransferSummary {
	status := simplify(rec, steps)

	summary := domain.TransferSummary{Status: status}
	if !status.Terminal() {
		// A non-terminal transfer never reports time spent: the value
		// would be read as a final duration.
		return summary
	}

	if spent, ok := timeSpent(rec, steps); ok {
		summary.TimeSpent = &spent
	}
	return summary
}

func simplify(rec domain.Records, steps []domain.Step) domain.SimplifiedStatus {
	if rec.Failed {
		return domain.StatusFailed
	}
	for _, s := range steps {
		if s.Status == domain.StepStatusFailed {
			return domain.StatusFailed
		}
	}

	if len(steps) > 0 && steps[len(steps)-1].Status == domain.StepStatusSuccess {
		return domain.StatusReceived
	}

	for _, s := range steps {
		if (s.ID == domain.StepCommand || s.ID == domain.StepVote) && s.Status == domain.StepStatusSuccess {
			return domain.StatusApproved
		}
	}

	return domain.StatusPending
}

// timeSpent is the elapsed seconds between the origin record and the
// record backing the terminal step. Both timestamps must be known.
func timeSpent(rec domain.Records, steps []domain.Step) (int64, bool) {
	origin := originTimestamp(rec)
	if origin == 0 || len(steps) == 0 {
		return 0, false
	}
	terminal := recordTimestamp(rec, steps[len(steps)-1].ID)
	if terminal == 0 || terminal < origin {
		return 0, false
	}
	return terminal - origin, true
}

func originTimestamp(rec domain.Records) int64 {
	switch {
	case rec.Send != nil:
		return rec.Send.Timestamp
	case rec.Wrap != nil:
		return rec.Wrap.Timestamp
	case rec.Erc20Transfer != nil:
		return rec.Erc20Transfer.Timestamp
	}
	return 0
}

func recordTimestamp(rec domain.Records, id domain.StepID) int64 {
	switch id {
	case domain.StepLink:
		if rec.Link != nil {
			return rec.Link.Timestamp
		}
	case domain.StepSend, domain.StepWrapped, domain.StepErc20Transferred:
		if rec.Send != nil {
			return rec.Send.Timestamp
		}
	case domain.StepWrap:
		if rec.Wrap != nil {
			return rec.Wrap.Timestamp
		}
	case domain.StepErc20Transfer:
		if rec.Erc20Transfer != nil {
			return rec.Erc20Transfer.Timestamp
		}
	case domain.StepConfirm:
		if rec.Confirm != nil {
			return rec.Confirm.Timestamp
		}
	case domain.StepVote:
		if rec.Vote != nil {
			return rec.Vote.Timestamp
		}
	case domain.StepCommand:
		if rec.Command != nil {
			return rec.Command.Timestamp
		}
	case domain.StepIbcSend:
		if rec.IbcSend != nil {
			return rec.IbcSend.Timestamp
		}
	case domain.StepAxelarTransfer:
		if rec.AxelarTransfer != nil {
			return rec.AxelarTransfer.Timestamp
		}
	case domain.StepUnwrap:
		if rec.Unwrap != nil {
			return rec.Unwrap.Timestamp
		}
	}
	return 0
}
