package txmeta

import (
	"testing"

	"github.com/crossscan/crossscan/internal/core/domain"
)

func TestResolveTypeExplicitListWins(t *testing.T) {
	tx := domain.RawTransaction{
		Types:    []string{"ConfirmDeposit", "MsgSend"},
		Messages: []domain.Message{{"@type": "/cosmos.bank.v1beta1.MsgSend"}},
	}
	if got := ResolveType(tx); got != "ConfirmDeposit" {
		t.Errorf("type = %q, want ConfirmDeposit", got)
	}
}

func TestResolveTypeRequestSuffixPreference(t *testing.T) {
	tests := []struct {
		name string
		tx   domain.RawTransaction
		want string
	}{
		{
			// Both variants present: the Request duplicate is dropped.
			name: "request duplicate dropped",
			tx: domain.RawTransaction{
				Messages: []domain.Message{
					{"@type": "/axelar.vote.v1beta1.MsgVoteRequest"},
					{"@type": "/axelar.vote.v1beta1.MsgVote"},
				},
			},
			want: "MsgVote",
		},
		{
			// Only the Request variant exists: the trailing suffix is
			// still stripped from the survivor.
			name: "lone request stripped",
			tx: domain.RawTransaction{
				Messages: []domain.Message{
					{"@type": "/axelar.vote.v1beta1.MsgVoteRequest"},
				},
			},
			want: "MsgVote",
		},
		{
			// Non-Request duplicates keep plain first-wins order.
			name: "other duplicates untouched",
			tx: domain.RawTransaction{
				Messages: []domain.Message{
					{"@type": "/cosmos.bank.v1beta1.MsgSend"},
					{"@type": "/ibc.applications.transfer.v1.MsgTransfer"},
				},
			},
			want: "MsgSend",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveType(tt.tx); got != tt.want {
				t.Errorf("type = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveTypeCandidateOrder(t *testing.T) {
	// Inner-message types outrank log actions, which outrank top-level
	// message types.
	tx := domain.RawTransaction{
		Messages: []domain.Message{
			{
				"@type": "/axelar.reward.v1beta1.RefundMsgRequest",
				"inner_message": map[string]any{
					"@type": "/axelar.vote.v1beta1.VoteRequest",
				},
			},
		},
		Logs: []domain.Log{
			{
				Events: []domain.Event{
					{Type: "message", Attributes: []domain.Attribute{{Key: "action", Value: "vote"}}},
				},
			},
		},
	}
	if got := ResolveType(tx); got != "Vote" {
		t.Errorf("type = %q, want Vote", got)
	}
}

func TestResolveTypeLogActionTitleCased(t *testing.T) {
	tx := domain.RawTransaction{
		Logs: []domain.Log{
			{
				Events: []domain.Event{
					{Type: "message", Attributes: []domain.Attribute{{Key: "action", Value: "delegate"}}},
				},
			},
		},
	}
	if got := ResolveType(tx); got != "Delegate" {
		t.Errorf("type = %q, want Delegate", got)
	}
}
