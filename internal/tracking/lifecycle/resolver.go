package lifecycle

import (
	"github.com/crossscan/crossscan/internal/core/domain"
	"github.com/crossscan/crossscan/internal/registry"
)

// Resolver turns the stage records of one transfer into its ordered
// lifecycle step list. Resolution is pure: identical input yields an
// identical step list, and adding a later-stage record never flips an
// earlier step back to pending.
type Resolver struct {
	reg *registry.Registry
}

// NewResolver creates a step resolver backed by a chain registry.
func NewResolver(reg *registry.Registry) *Resolver {
	return &Resolver{reg: reg}
}

// Resolve builds the step list for one transfer. The list is a fixed
// template selected by transfer type, then filtered by the chain types
// of source and destination. Absent stages resolve to pending steps;
// a stage with no matching template slot is omitted, never emitted as
// a placeholder.
func (r *Resolver) Resolve(
	typ domain.TransferType,
	rec domain.Records,
	source *domain.ChainRef,
	destination *domain.ChainRef,
) []domain.Step {
	hub := r.reg.Axelarnet()
	steps := make([]domain.Step, 0, 6)

	// Deposit-address transfers start with the link stage. Once the
	// link record exists the step is always success.
	if typ == domain.TransferDepositAddress && rec.Link != nil {
		steps = append(steps, domain.Step{
			ID:     domain.StepLink,
			Title:  "Linked",
			Status: domain.StepStatusSuccess,
			TxHash: rec.Link.TxHash,
			Chain:  hub,
		})
	}

	steps = append(steps, r.originStep(typ, rec, source))

	// Wrap and ERC-20 transfers carry a synthetic second step that is
	// gated on the send record, not on the wrap/transfer initiation:
	// the asset only counts as wrapped/transferred once the send exists.
	switch typ {
	case domain.TransferWrap:
		steps = append(steps, gatedStep(domain.StepWrapped, "Wrapped", rec.Send != nil, sendTxHash(rec), source))
	case domain.TransferErc20:
		steps = append(steps, gatedStep(domain.StepErc20Transferred, "ERC20 Transferred", rec.Send != nil, sendTxHash(rec), source))
	}

	if typ != domain.TransferSendToken && typ != domain.TransferWrap && typ != domain.TransferErc20 {
		steps = append(steps, r.confirmStep(rec, source, hub))
	}

	if source != nil && source.IsEVM() {
		steps = append(steps, r.voteStep(rec, hub))
	}

	switch {
	case destination != nil && destination.IsEVM():
		steps = append(steps, r.commandStep(rec, destination, hub))
	case destination != nil && destination.IsAxelarnet():
		steps = append(steps, r.axelarTransferStep(rec, hub))
	case destination != nil && destination.IsCosmos():
		steps = append(steps, r.ibcSendStep(rec, destination))
	}

	if typ == domain.TransferUnwrap {
		tx := ""
		if rec.Unwrap != nil {
			tx = rec.Unwrap.TxHash
		}
		steps = append(steps, gatedStep(domain.StepUnwrap, "Unwrapped", rec.Unwrap != nil, tx, destination))
	}

	return steps
}

// originStep builds the first value-moving step. For wrap and ERC-20
// transfers the origin is the initiation record; everything else
// originates with the send.
func (r *Resolver) originStep(typ domain.TransferType, rec domain.Records, source *domain.ChainRef) domain.Step {
	switch typ {
	case domain.TransferWrap:
		tx := ""
		if rec.Wrap != nil {
			tx = rec.Wrap.TxHash
		}
		return titledStep(domain.StepWrap, "Wrap", "Wrap Initiated", rec.Wrap != nil, tx, source)
	case domain.TransferErc20:
		tx := ""
		if rec.Erc20Transfer != nil {
			tx = rec.Erc20Transfer.TxHash
		}
		return titledStep(domain.StepErc20Transfer, "Transfer", "Transfer Initiated", rec.Erc20Transfer != nil, tx, source)
	default:
		return titledStep(domain.StepSend, "Send", "Sent", rec.Send != nil, sendTxHash(rec), source)
	}
}

// confirmStep is the hub-side deposit confirmation. EVM sources wait on
// finality before the hub can confirm, so the pending title differs by
// source chain type.
func (r *Resolver) confirmStep(rec domain.Records, source, hub *domain.ChainRef) domain.Step {
	if rec.Confirm != nil {
		return domain.Step{
			ID:     domain.StepConfirm,
			Title:  "Deposit Confirmed",
			Status: domain.StepStatusSuccess,
			TxHash: rec.Confirm.TxHash,
			Chain:  hub,
		}
	}
	title := "Confirm Deposit"
	if source != nil && source.IsEVM() {
		title = "Waiting for Finality"
	}
	return domain.Step{ID: domain.StepConfirm, Title: title, Status: domain.StepStatusPending, Chain: hub}
}

func (r *Resolver) voteStep(rec domain.Records, hub *domain.ChainRef) domain.Step {
	tx := ""
	if rec.Vote != nil {
		tx = rec.Vote.TxHash
	}
	return titledStep(domain.StepVote, "Vote", "Confirmed", rec.Vote != nil, tx, hub)
}

// commandStep is the destination-chain EVM batch approval/execution.
// A known destination transaction hash completes the step even when the
// executed flag has not flipped yet, and moves the step's chain
// attribution from the hub to the destination so explorer links point
// at the right chain.
func (r *Resolver) commandStep(rec domain.Records, destination, hub *domain.ChainRef) domain.Step {
	step := domain.Step{ID: domain.StepCommand, Title: "Approve", Status: domain.StepStatusPending, Chain: hub}
	if rec.Command == nil {
		return step
	}
	if rec.Command.TransactionHash != "" {
		step.Status = domain.StepStatusSuccess
		step.Title = "Approved"
		step.TxHash = rec.Command.TransactionHash
		step.Chain = destination
		return step
	}
	if rec.Command.Executed {
		step.Status = domain.StepStatusSuccess
		step.Title = "Approved"
	}
	return step
}

// ibcSendStep is the only step with an explicit failed state: a failure
// transaction hash marks it failed, an ack or a receive without failure
// marks it success.
func (r *Resolver) ibcSendStep(rec domain.Records, destination *domain.ChainRef) domain.Step {
	step := domain.Step{ID: domain.StepIbcSend, Title: "IBC Transfer", Status: domain.StepStatusPending, Chain: destination}
	ibc := rec.IbcSend
	if ibc == nil {
		return step
	}
	switch {
	case ibc.AckTxHash != "" || (ibc.RecvTxHash != "" && ibc.FailedTxHash == ""):
		step.Status = domain.StepStatusSuccess
		step.Title = "IBC Transferred"
		step.TxHash = ibc.RecvTxHash
		if step.TxHash == "" {
			step.TxHash = ibc.AckTxHash
		}
	case ibc.FailedTxHash != "":
		step.Status = domain.StepStatusFailed
		step.TxHash = ibc.FailedTxHash
	default:
		step.TxHash = ibc.TxHash
	}
	return step
}

func (r *Resolver) axelarTransferStep(rec domain.Records, hub *domain.ChainRef) domain.Step {
	tx := ""
	if rec.AxelarTransfer != nil {
		tx = rec.AxelarTransfer.TxHash
	}
	return titledStep(domain.StepAxelarTransfer, "Transfer", "Transferred", rec.AxelarTransfer != nil, tx, hub)
}

func titledStep(id domain.StepID, pending, success string, done bool, tx string, chain *domain.ChainRef) domain.Step {
	step := domain.Step{ID: id, Title: pending, Status: domain.StepStatusPending, Chain: chain}
	if done {
		step.Title = success
		step.Status = domain.StepStatusSuccess
		step.TxHash = tx
	}
	return step
}

func gatedStep(id domain.StepID, title string, done bool, tx string, chain *domain.ChainRef) domain.Step {
	step := domain.Step{ID: id, Title: title, Status: domain.StepStatusPending, Chain: chain}
	if done {
		step.Status = domain.StepStatusSuccess
		step.TxHash = tx
	}
	return step
}

func sendTxHash(rec domain.Records) string {
	if rec.Send != nil {
		return rec.Send.TxHash
	}
	return ""
}
