package txmeta

import (
	"testing"

	"github.com/crossscan/crossscan/internal/core/domain"
)

func TestDelegationInvertsParties(t *testing.T) {
	tx := domain.RawTransaction{
		Messages: []domain.Message{
			{
				"@type":             "/cosmos.staking.v1beta1.MsgDelegate",
				"delegator_address": "axelar1abc",
				"validator_address": "axelarvaloper1xyz",
			},
		},
	}

	if got := Sender(tx, nil); got != "axelar1abc" {
		t.Errorf("sender = %q, want the delegator axelar1abc", got)
	}
	if got := Recipient(tx, nil); got != "axelarvaloper1xyz" {
		t.Errorf("recipient = %q, want the validator axelarvaloper1xyz", got)
	}
}

func TestUndelegationSwapsRoles(t *testing.T) {
	tx := domain.RawTransaction{
		Messages: []domain.Message{
			{
				"@type":             "/cosmos.staking.v1beta1.MsgUndelegate",
				"delegator_address": "axelar1abc",
				"validator_address": "axelarvaloper1xyz",
			},
		},
	}

	if got := Sender(tx, nil); got != "axelarvaloper1xyz" {
		t.Errorf("sender = %q, want the validator", got)
	}
	if got := Recipient(tx, nil); got != "axelar1abc" {
		t.Errorf("recipient = %q, want the delegator", got)
	}
}

func TestPartyFallsBackToActivities(t *testing.T) {
	tx := domain.RawTransaction{
		Messages: []domain.Message{
			{"@type": "/cosmos.bank.v1beta1.MsgSend"},
		},
	}
	activities := []domain.Activity{
		{Sender: "axelar1fromactivity", Recipient: []string{"axelar1rcpt", "axelar1other"}},
	}

	if got := Sender(tx, activities); got != "axelar1fromactivity" {
		t.Errorf("sender = %q, want activity fallback", got)
	}
	if got := Recipient(tx, activities); got != "axelar1rcpt" {
		t.Errorf("recipient = %q, want first of the activity list", got)
	}
}

func TestMessageFieldOutranksActivity(t *testing.T) {
	tx := domain.RawTransaction{
		Messages: []domain.Message{
			{"@type": "/cosmos.bank.v1beta1.MsgSend", "sender": "axelar1msg"},
		},
	}
	activities := []domain.Activity{{Sender: "axelar1activity"}}

	if got := Sender(tx, activities); got != "axelar1msg" {
		t.Errorf("sender = %q, want the message field", got)
	}
}

func TestSignerIsLastResort(t *testing.T) {
	tx := domain.RawTransaction{
		Messages: []domain.Message{
			{"@type": "/axelar.vote.v1beta1.VoteRequest", "signer": "axelar1signer"},
		},
	}
	if got := Sender(tx, nil); got != "axelar1signer" {
		t.Errorf("sender = %q, want the signer fallback", got)
	}
}
