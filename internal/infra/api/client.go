package api

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/crossscan/crossscan/internal/core/domain"
	"github.com/crossscan/crossscan/internal/tracking/metrics"
)

// Client exposes the upstream indexer APIs as typed operations: the
// token-transfer search/detail API, the GMP/poll API and the Cosmos
// transaction query. Decoding is tolerant: absent fields stay zero,
// they never fail the call.
type Client struct {
	router *Router
}

// Config holds the upstream endpoint list.
type Config struct {
	Endpoints []EndpointConfig `yaml:"endpoints"`
	Timeout   time.Duration    `yaml:"timeout"`
}

// EndpointConfig is one upstream base URL.
type EndpointConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// NewClient builds a client with failover across the configured
// endpoints, in configuration order.
func NewClient(cfg Config) (*Client, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, fmt.Errorf("no upstream endpoints configured")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	router := NewRouter()
	for _, ec := range cfg.Endpoints {
		router.AddEndpoint(NewEndpoint(ec.Name, ec.URL, timeout))
	}
	return &Client{router: router}, nil
}

// NewClientWithRouter wires a prebuilt router, used by tests.
func NewClientWithRouter(router *Router) *Client {
	return &Client{router: router}
}

// Statuses reports per-endpoint health for the health monitor.
func (c *Client) Statuses() []EndpointStatus {
	return c.router.Statuses()
}

// TransferQuery filters a transfer search.
type TransferQuery struct {
	TxHash           string `json:"txHash,omitempty"`
	SourceChain      string `json:"sourceChain,omitempty"`
	DestinationChain string `json:"destinationChain,omitempty"`
	DepositAddress   string `json:"depositAddress,omitempty"`
	From             int    `json:"from"`
	Size             int    `json:"size"`
}

// TransferResult is one transfer row: its identifying fields plus every
// stage record known upstream.
type TransferResult struct {
	TransferID       string              `json:"transfer_id"`
	Type             domain.TransferType `json:"type"`
	SourceChain      string              `json:"source_chain"`
	DestinationChain string              `json:"destination_chain"`
	Records          domain.Records      `json:"-"`
}

// transferWire is the upstream row shape: stage records sit at the top
// level next to the identifying fields.
type transferWire struct {
	TransferID       string              `json:"transfer_id"`
	Type             domain.TransferType `json:"type"`
	SourceChain      string              `json:"source_chain"`
	DestinationChain string              `json:"destination_chain"`
	Failed           bool                `json:"failed"`

	Link           *domain.LinkRecord           `json:"link"`
	Send           *domain.SendRecord           `json:"send"`
	Wrap           *domain.WrapRecord           `json:"wrap"`
	Unwrap         *domain.UnwrapRecord         `json:"unwrap"`
	Erc20Transfer  *domain.Erc20TransferRecord  `json:"erc20_transfer"`
	Confirm        *domain.ConfirmRecord        `json:"confirm"`
	Vote           *domain.VoteRecord           `json:"vote"`
	Command        *domain.CommandRecord        `json:"command"`
	IbcSend        *domain.IbcSendRecord        `json:"ibc_send"`
	AxelarTransfer *domain.AxelarTransferRecord `json:"axelar_transfer"`
}

func (w transferWire) result() TransferResult {
	res := TransferResult{
		TransferID:       w.TransferID,
		Type:             w.Type,
		SourceChain:      w.SourceChain,
		DestinationChain: w.DestinationChain,
		Records: domain.Records{
			TransferID:     w.TransferID,
			Link:           w.Link,
			Send:           w.Send,
			Wrap:           w.Wrap,
			Unwrap:         w.Unwrap,
			Erc20Transfer:  w.Erc20Transfer,
			Confirm:        w.Confirm,
			Vote:           w.Vote,
			Command:        w.Command,
			IbcSend:        w.IbcSend,
			AxelarTransfer: w.AxelarTransfer,
			Failed:         w.Failed,
		},
	}
	// Chains are sometimes only present on the stage records.
	if res.SourceChain == "" && w.Link != nil {
		res.SourceChain = w.Link.SourceChain
	}
	if res.SourceChain == "" && w.Send != nil {
		res.SourceChain = w.Send.SourceChain
	}
	if res.DestinationChain == "" && w.Link != nil {
		res.DestinationChain = w.Link.DestinationChain
	}
	if res.Type == "" {
		res.Type = domain.TransferDepositAddress
	}
	return res
}

// SearchTransfers queries the transfer search API.
func (c *Client) SearchTransfers(ctx context.Context, q TransferQuery) ([]TransferResult, error) {
	if q.Size == 0 {
		q.Size = 25
	}

	var resp struct {
		Data  []transferWire `json:"data"`
		Total int            `json:"total"`
	}
	err := c.call(ctx, "search_transfers", func(ctx context.Context, e *Endpoint) error {
		return e.Post(ctx, "/transfers", q, &resp)
	})
	if err != nil {
		return nil, err
	}

	out := make([]TransferResult, 0, len(resp.Data))
	for _, w := range resp.Data {
		out = append(out, w.result())
	}
	return out, nil
}

// GetTransfer fetches one transfer by id or tx hash.
func (c *Client) GetTransfer(ctx context.Context, id string) (*TransferResult, error) {
	results, err := c.SearchTransfers(ctx, TransferQuery{TxHash: id, Size: 1})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	res := results[0]
	return &res, nil
}

// GMPQuery filters a GMP/poll search.
type GMPQuery struct {
	PollID string `json:"pollId,omitempty"`
	Chain  string `json:"chain,omitempty"`
	TxID   string `json:"txId,omitempty"`
	From   int    `json:"from"`
	Size   int    `json:"size"`
}

// pollWire is the upstream poll shape, with votes keyed by voter
// address alongside the named fields.
type pollWire struct {
	PollID             string                   `json:"poll_id"`
	Chain              string                   `json:"sender_chain"`
	TxID               string                   `json:"transaction_id"`
	Status             string                   `json:"status"`
	Height             int64                    `json:"height"`
	Timestamp          int64                    `json:"timestamp"`
	ConfirmationEvents []domain.RawEvent        `json:"confirmation_events"`
	Participants       []domain.PollParticipant `json:"participants"`
	Votes              map[string]bool          `json:"votes"`
}

func (w pollWire) poll() domain.Poll {
	return domain.Poll{
		ID:                 w.PollID,
		Chain:              w.Chain,
		TxID:               w.TxID,
		Status:             w.Status,
		Height:             w.Height,
		Timestamp:          w.Timestamp,
		Votes:              w.Votes,
		ConfirmationEvents: w.ConfirmationEvents,
		Participants:       w.Participants,
	}
}

// SearchPolls queries the GMP/poll API.
func (c *Client) SearchPolls(ctx context.Context, q GMPQuery) ([]domain.Poll, error) {
	if q.Size == 0 {
		q.Size = 25
	}

	var resp struct {
		Data []pollWire `json:"data"`
	}
	err := c.call(ctx, "search_polls", func(ctx context.Context, e *Endpoint) error {
		return e.Post(ctx, "/gmp/polls", q, &resp)
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.Poll, 0, len(resp.Data))
	for _, w := range resp.Data {
		out = append(out, w.poll())
	}
	return out, nil
}

// cosmosTxWire is the Cosmos transaction query response shape.
type cosmosTxWire struct {
	Tx struct {
		Body struct {
			Messages []domain.Message `json:"messages"`
		} `json:"body"`
	} `json:"tx"`
	TxResponse struct {
		TxHash    string       `json:"txhash"`
		Height    int64        `json:"height,string"`
		Code      int          `json:"code"`
		Timestamp string       `json:"timestamp"`
		Logs      []domain.Log `json:"logs"`
	} `json:"tx_response"`
}

// GetTx fetches one raw transaction by hash.
func (c *Client) GetTx(ctx context.Context, hash string) (*domain.RawTransaction, error) {
	var wire cosmosTxWire
	err := c.call(ctx, "get_tx", func(ctx context.Context, e *Endpoint) error {
		return e.Get(ctx, "/cosmos/tx/v1beta1/txs/"+url.PathEscape(hash), &wire)
	})
	if err != nil {
		return nil, err
	}
	if wire.TxResponse.TxHash == "" && len(wire.Tx.Body.Messages) == 0 {
		return nil, nil
	}

	tx := &domain.RawTransaction{
		TxHash:   wire.TxResponse.TxHash,
		Height:   wire.TxResponse.Height,
		Code:     wire.TxResponse.Code,
		Messages: wire.Tx.Body.Messages,
		Logs:     wire.TxResponse.Logs,
	}
	if ts, err := time.Parse(time.RFC3339, wire.TxResponse.Timestamp); err == nil {
		tx.Timestamp = ts.Unix()
	}
	return tx, nil
}

// call wraps a routed operation with metrics.
func (c *Client) call(ctx context.Context, op string, fn func(ctx context.Context, e *Endpoint) error) error {
	return c.router.Do(ctx, func(ctx context.Context, e *Endpoint) error {
		start := time.Now()
		metrics.UpstreamCallsTotal.WithLabelValues(e.Name(), op).Inc()
		err := fn(ctx, e)
		metrics.UpstreamLatency.WithLabelValues(e.Name(), op).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.UpstreamErrorsTotal.WithLabelValues(e.Name(), op, errorType(err)).Inc()
		}
		return err
	})
}

func errorType(err error) string {
	if err == nil {
		return "none"
	}
	if e := err.Error(); len(e) >= 4 && e[:4] == "rate" {
		return "throttled"
	}
	return "error"
}
