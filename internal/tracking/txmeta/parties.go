package txmeta

import (
	"github.com/crossscan/crossscan/internal/core/domain"
)

// Party extraction walks an ordered list of field names and returns the
// first non-empty value, looking each name up on the raw message list
// before the classified activity list. The precedence is business
// logic, not an accident of implementation:
//
//	sender:    delegator_address (MsgDelegate) -> validator_address
//	           (MsgUndelegate) -> sender -> signer
//	recipient: validator_address (MsgDelegate) -> delegator_address
//	           (MsgUndelegate) -> recipient
//
// Delegation messages invert which address counts as sender versus
// recipient relative to a plain transfer: delegating "sends" stake from
// the delegator to the validator, undelegating sends it back.

// Sender derives the sending party of a transaction.
func Sender(tx domain.RawTransaction, activities []domain.Activity) string {
	return firstParty(tx, activities, senderFields(ResolveType(tx)))
}

// Recipient derives the receiving party of a transaction.
func Recipient(tx domain.RawTransaction, activities []domain.Activity) string {
	return firstParty(tx, activities, recipientFields(ResolveType(tx)))
}

func senderFields(typ string) []string {
	switch typ {
	case "MsgDelegate":
		return []string{"delegator_address", "sender", "signer"}
	case "MsgUndelegate":
		return []string{"validator_address", "sender", "signer"}
	}
	return []string{"sender", "signer"}
}

func recipientFields(typ string) []string {
	switch typ {
	case "MsgDelegate":
		return []string{"validator_address", "recipient"}
	case "MsgUndelegate":
		return []string{"delegator_address", "recipient"}
	}
	return []string{"recipient"}
}

func firstParty(tx domain.RawTransaction, activities []domain.Activity, fields []string) string {
	for _, field := range fields {
		for _, msg := range tx.Messages {
			if v, ok := msg[field].(string); ok && v != "" {
				return v
			}
		}
		for _, a := range activities {
			if v := activityField(a, field); v != "" {
				return v
			}
		}
	}
	return ""
}

func activityField(a domain.Activity, field string) string {
	switch field {
	case "sender":
		return a.Sender
	case "signer":
		return a.Signer
	case "recipient":
		switch r := a.Recipient.(type) {
		case string:
			return r
		case []string:
			if len(r) > 0 {
				return r[0]
			}
		}
		return ""
	}
	if v, ok := a.Fields[field].(string); ok {
		return v
	}
	return ""
}
