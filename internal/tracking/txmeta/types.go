package txmeta

import (
	"strings"

	"github.com/crossscan/crossscan/internal/core/domain"
	"github.com/crossscan/crossscan/internal/tracking/classify"
)

// ResolveType derives the canonical message-type label for a
// transaction.
//
// An explicit types list short-circuits everything. Otherwise
// candidates are collected, in order, from inner-message type URLs, the
// action attributes of message-typed log events, and top-level message
// type URLs; each is reduced to its title-cased last dot-segment and
// de-duplicated.
//
// The final preference is deliberately asymmetric: a "XRequest"
// candidate is dropped only when its bare "X" counterpart also occurs
// (the Cosmos SDK names requests and their containing messages this
// way); other duplicates keep first-wins order. The surviving first
// candidate still loses one trailing "Request".
func ResolveType(tx domain.RawTransaction) string {
	if len(tx.Types) > 0 {
		return tx.Types[0]
	}

	var candidates []string
	seen := map[string]bool{}
	add := func(raw string) {
		if raw == "" {
			return
		}
		c := classify.NormalizeType(raw)
		if c == "" || seen[c] {
			return
		}
		seen[c] = true
		candidates = append(candidates, c)
	}

	for _, msg := range tx.Messages {
		if inner, ok := msg["inner_message"].(map[string]any); ok {
			if t, ok := inner["@type"].(string); ok {
				add(t)
			}
		}
	}
	for _, log := range tx.Logs {
		for _, ev := range log.Events {
			if ev.Type != "message" {
				continue
			}
			if action, ok := ev.Attr("action"); ok {
				add(action)
			}
		}
	}
	for _, msg := range tx.Messages {
		if t, ok := msg["@type"].(string); ok {
			add(t)
		}
	}

	for _, c := range candidates {
		if strings.HasSuffix(c, "Request") && seen[strings.TrimSuffix(c, "Request")] {
			continue
		}
		return strings.TrimSuffix(c, "Request")
	}
	return ""
}
