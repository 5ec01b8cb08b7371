package domain

// The stage records of one cross-chain transfer form a closed set of
// variants. At most one instance of each variant exists per transfer;
// a nil field means that stage has not happened yet. Records are
// produced upstream and are append-only: a stage, once present, is
// never retracted.

// LinkRecord ties a deposit address to a transfer route.
type LinkRecord struct {
	TxHash           string `json:"txhash"`
	DepositAddress   string `json:"deposit_address"`
	SourceChain      string `json:"source_chain"`
	DestinationChain string `json:"destination_chain"`
	Timestamp        int64  `json:"timestamp"`
}

// SendRecord is the origin-chain send of the transferred asset.
type SendRecord struct {
	TxHash      string `json:"txhash"`
	SourceChain string `json:"source_chain"`
	Sender      string `json:"sender_address"`
	Denom       string `json:"denom"`
	Amount      string `json:"amount"`
	Timestamp   int64  `json:"timestamp"`
}

// WrapRecord is the native-to-wrapped conversion initiation.
type WrapRecord struct {
	TxHash    string `json:"tx_hash"`
	Timestamp int64  `json:"timestamp"`
}

// UnwrapRecord is the destination-side wrapped-to-native conversion.
type UnwrapRecord struct {
	TxHash    string `json:"tx_hash"`
	Timestamp int64  `json:"timestamp"`
}

// Erc20TransferRecord is a plain ERC-20 transfer initiating a transfer.
type Erc20TransferRecord struct {
	TxHash    string `json:"tx_hash"`
	Timestamp int64  `json:"timestamp"`
}

// ConfirmRecord is the hub-side confirmation of the origin deposit.
type ConfirmRecord struct {
	TxHash    string `json:"txhash"`
	PollID    string `json:"poll_id"`
	Timestamp int64  `json:"timestamp"`
}

// VoteRecord is the validator poll confirming an external-chain event.
type VoteRecord struct {
	TxHash    string `json:"txhash"`
	PollID    string `json:"poll_id"`
	Success   bool   `json:"success"`
	Timestamp int64  `json:"timestamp"`
}

// CommandRecord is the signed destination-chain EVM batch instruction.
type CommandRecord struct {
	ID              string `json:"command_id"`
	BatchID         string `json:"batch_id"`
	Executed        bool   `json:"executed"`
	TransactionHash string `json:"transaction_hash"`
	Timestamp       int64  `json:"timestamp"`
}

// IbcSendRecord is the IBC packet leg between the hub and a Cosmos chain.
type IbcSendRecord struct {
	TxHash       string `json:"txhash"`
	AckTxHash    string `json:"ack_txhash"`
	RecvTxHash   string `json:"recv_txhash"`
	FailedTxHash string `json:"failed_txhash"`
	Timestamp    int64  `json:"timestamp"`
}

// AxelarTransferRecord is the hub-internal credit when the hub itself is
// the destination.
type AxelarTransferRecord struct {
	TxHash    string `json:"txhash"`
	Timestamp int64  `json:"timestamp"`
}

// Records collects every known stage record of one transfer.
type Records struct {
	TransferID     string                `json:"transfer_id"`
	Link           *LinkRecord           `json:"link,omitempty"`
	Send           *SendRecord           `json:"send,omitempty"`
	Wrap           *WrapRecord           `json:"wrap,omitempty"`
	Unwrap         *UnwrapRecord         `json:"unwrap,omitempty"`
	Erc20Transfer  *Erc20TransferRecord  `json:"erc20_transfer,omitempty"`
	Confirm        *ConfirmRecord        `json:"confirm,omitempty"`
	Vote           *VoteRecord           `json:"vote,omitempty"`
	Command        *CommandRecord        `json:"command,omitempty"`
	IbcSend        *IbcSendRecord        `json:"ibc_send,omitempty"`
	AxelarTransfer *AxelarTransferRecord `json:"axelar_transfer,omitempty"`

	// Failed marks the transfer as terminally failed upstream
	// (insufficient fee, rejected deposit).
	Failed bool `json:"failed,omitempty"`
}

// TransferType selects which stage records are relevant to a transfer
// and how its lifecycle steps are titled.
type TransferType string

const (
	TransferDepositAddress TransferType = "deposit_address"
	TransferSendToken      TransferType = "send_token"
	TransferWrap           TransferType = "wrap"
	TransferUnwrap         TransferType = "unwrap"
	TransferErc20          TransferType = "erc20_transfer"
)
