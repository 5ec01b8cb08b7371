package lifecycle

import (
	"testing"

	"github.com/crossscan/crossscan/internal/core/domain"
)

func TestAggregatePrecedence(t *testing.T) {
	reg := testRegistry()
	r := NewResolver(reg)
	src, dst := chainRef(t, reg, "ethereum"), chainRef(t, reg, "osmosis")

	tests := []struct {
		name string
		rec  domain.Records
		want domain.SimplifiedStatus
	}{
		{
			name: "nothing yet",
			rec:  domain.Records{},
			want: domain.StatusPending,
		},
		{
			name: "upstream failed flag wins over everything",
			rec: domain.Records{
				Failed:  true,
				Send:    &domain.SendRecord{TxHash: "0x1", Timestamp: 10},
				IbcSend: &domain.IbcSendRecord{AckTxHash: "0x2", Timestamp: 20},
			},
			want: domain.StatusFailed,
		},
		{
			name: "vote success but destination pending is approved",
			rec: domain.Records{
				Send: &domain.SendRecord{TxHash: "0x1"},
				Vote: &domain.VoteRecord{TxHash: "0x2", Success: true},
			},
			want: domain.StatusApproved,
		},
		{
			name: "destination step success is received",
			rec: domain.Records{
				Send:    &domain.SendRecord{TxHash: "0x1", Timestamp: 10},
				Vote:    &domain.VoteRecord{TxHash: "0x2"},
				IbcSend: &domain.IbcSendRecord{TxHash: "0x3", RecvTxHash: "0x4", Timestamp: 25},
			},
			want: domain.StatusReceived,
		},
		{
			name: "ibc failure hash is failed",
			rec: domain.Records{
				Send:    &domain.SendRecord{TxHash: "0x1", Timestamp: 10},
				IbcSend: &domain.IbcSendRecord{TxHash: "0x3", FailedTxHash: "0x5", Timestamp: 30},
			},
			want: domain.StatusFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps := r.Resolve(domain.TransferSendToken, tt.rec, src, dst)
			got := Aggregate(tt.rec, steps)
			if got.Status != tt.want {
				t.Errorf("status = %s, want %s", got.Status, tt.want)
			}
		})
	}
}

// Time spent is reported only for terminal statuses. A pending or
// approved transfer must never carry the metric.
func TestAggregateTimeSpentOnlyWhenTerminal(t *testing.T) {
	reg := testRegistry()
	r := NewResolver(reg)
	src, dst := chainRef(t, reg, "ethereum"), chainRef(t, reg, "osmosis")

	pendingRec := domain.Records{
		Send: &domain.SendRecord{TxHash: "0x1", Timestamp: 100},
		Vote: &domain.VoteRecord{TxHash: "0x2", Timestamp: 160},
	}
	got := Aggregate(pendingRec, r.Resolve(domain.TransferSendToken, pendingRec, src, dst))
	if got.Status.Terminal() {
		t.Fatalf("status = %s, expected non-terminal fixture", got.Status)
	}
	if got.TimeSpent != nil {
		t.Errorf("non-terminal transfer reported time spent %d", *got.TimeSpent)
	}

	doneRec := domain.Records{
		Send:    &domain.SendRecord{TxHash: "0x1", Timestamp: 100},
		Vote:    &domain.VoteRecord{TxHash: "0x2", Timestamp: 160},
		IbcSend: &domain.IbcSendRecord{TxHash: "0x3", AckTxHash: "0x4", Timestamp: 220},
	}
	got = Aggregate(doneRec, r.Resolve(domain.TransferSendToken, doneRec, src, dst))
	if got.Status != domain.StatusReceived {
		t.Fatalf("status = %s, want received", got.Status)
	}
	if got.TimeSpent == nil {
		t.Fatal("terminal transfer should report time spent")
	}
	if *got.TimeSpent != 120 {
		t.Errorf("time spent = %d, want 120", *got.TimeSpent)
	}
}

func TestAggregateTimeSpentMissingTimestamps(t *testing.T) {
	reg := testRegistry()
	r := NewResolver(reg)
	src, dst := chainRef(t, reg, "ethereum"), chainRef(t, reg, "osmosis")

	// Terminal but the terminal record has no timestamp: status stands,
	// the metric degrades to absent.
	rec := domain.Records{
		Send:    &domain.SendRecord{TxHash: "0x1", Timestamp: 100},
		IbcSend: &domain.IbcSendRecord{TxHash: "0x3", AckTxHash: "0x4"},
	}
	got := Aggregate(rec, r.Resolve(domain.TransferSendToken, rec, src, dst))
	if got.Status != domain.StatusReceived {
		t.Fatalf("status = %s, want received", got.Status)
	}
	if got.TimeSpent != nil {
		t.Errorf("time spent = %d, want absent", *got.TimeSpent)
	}
}
