package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/crossscan/crossscan/internal/core/domain"
	"github.com/crossscan/crossscan/internal/infra/api"
	"github.com/crossscan/crossscan/internal/registry"
)

type mockFetcher struct {
	transfers map[string]*api.TransferResult
	txs       map[string]*domain.RawTransaction
	errIDs    map[string]bool
	calls     int
}

func (m *mockFetcher) GetTransfer(ctx context.Context, id string) (*api.TransferResult, error) {
	m.calls++
	if m.errIDs[id] {
		return nil, errors.New("upstream unavailable")
	}
	return m.transfers[id], nil
}

func (m *mockFetcher) GetTx(ctx context.Context, hash string) (*domain.RawTransaction, error) {
	m.calls++
	if m.errIDs[hash] {
		return nil, errors.New("upstream unavailable")
	}
	return m.txs[hash], nil
}

func testRegistry() *registry.Registry {
	return registry.New(
		[]domain.ChainRef{
			{ID: "ethereum", Name: "Ethereum", Type: domain.ChainTypeEVM},
			{ID: "osmosis", Name: "Osmosis", Type: domain.ChainTypeCosmos},
			{ID: "axelarnet", Name: "Axelarnet", Type: domain.ChainTypeAxelarnet},
		},
		[]domain.AssetRef{
			{Denom: "uaxl", Symbol: "AXL", Decimals: 6},
		},
	)
}

func TestEnrichTransfers(t *testing.T) {
	fetcher := &mockFetcher{
		transfers: map[string]*api.TransferResult{
			"t1": {
				TransferID:       "t1",
				Type:             domain.TransferDepositAddress,
				SourceChain:      "ethereum",
				DestinationChain: "osmosis",
				Records: domain.Records{
					Send: &domain.SendRecord{TxHash: "0xabc", Timestamp: 100},
				},
			},
			"t3": {
				TransferID:       "t3",
				Type:             domain.TransferSendToken,
				SourceChain:      "osmosis",
				DestinationChain: "ethereum",
				Records: domain.Records{
					Send: &domain.SendRecord{TxHash: "0xdef", Timestamp: 200},
				},
			},
		},
		errIDs: map[string]bool{"t2": true},
	}

	svc := NewService(fetcher, testRegistry(), Config{Concurrency: 2})
	views := svc.EnrichTransfers(context.Background(), []string{"t1", "t2", "t3", "t4"})

	if len(views) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(views))
	}
	if views[0] == nil || views[0].TransferID != "t1" {
		t.Fatalf("expected t1 at index 0, got %+v", views[0])
	}
	if views[1] != nil {
		t.Errorf("expected nil row for failed fetch, got %+v", views[1])
	}
	if views[2] == nil || views[2].TransferID != "t3" {
		t.Fatalf("expected t3 at index 2, got %+v", views[2])
	}
	if views[3] != nil {
		t.Errorf("expected nil row for unknown transfer, got %+v", views[3])
	}

	if len(views[0].Steps) == 0 {
		t.Fatal("expected resolved steps for t1")
	}
	if views[0].Summary.Status != domain.StatusPending {
		t.Errorf("expected pending status, got %s", views[0].Summary.Status)
	}
}

func TestEnrichTxs(t *testing.T) {
	fetcher := &mockFetcher{
		txs: map[string]*domain.RawTransaction{
			"AB12": {
				TxHash: "AB12",
				Messages: []domain.Message{
					{
						"@type":        "/cosmos.bank.v1beta1.MsgSend",
						"from_address": "axelar1sender",
						"to_address":   "axelar1recipient",
						"amount":       []any{map[string]any{"denom": "uaxl", "amount": "1000000"}},
					},
				},
			},
		},
		errIDs: map[string]bool{"CD34": true},
	}

	svc := NewService(fetcher, testRegistry(), Config{})
	views := svc.EnrichTxs(context.Background(), []string{"AB12", "CD34"})

	if views[0] == nil {
		t.Fatal("expected classified tx at index 0")
	}
	if views[0].Type != "MsgSend" {
		t.Errorf("expected type MsgSend, got %q", views[0].Type)
	}
	if views[0].Sender != "axelar1sender" {
		t.Errorf("expected sender axelar1sender, got %q", views[0].Sender)
	}
	if len(views[0].Activities) != 1 {
		t.Fatalf("expected 1 activity, got %d", len(views[0].Activities))
	}
	if views[1] != nil {
		t.Errorf("expected nil row for failed fetch, got %+v", views[1])
	}
}

func TestEnrichTransfersEmpty(t *testing.T) {
	fetcher := &mockFetcher{}
	svc := NewService(fetcher, testRegistry(), Config{})

	views := svc.EnrichTransfers(context.Background(), nil)
	if len(views) != 0 {
		t.Fatalf("expected no rows, got %d", len(views))
	}
	if fetcher.calls != 0 {
		t.Errorf("expected no fetches, got %d", fetcher.calls)
	}
}
