package classify

import (
	"encoding/json"
	"sort"

	"github.com/crossscan/crossscan/internal/core/domain"
	"github.com/crossscan/crossscan/internal/registry"
)

// Classifier turns one raw transaction's messages and logs into zero or
// more typed activities. Classification is total: malformed or partial
// input degrades to absent fields or an empty list, never an error.
type Classifier struct {
	reg *registry.Registry
}

// NewClassifier creates a classifier backed by the asset registry.
func NewClassifier(reg *registry.Registry) *Classifier {
	return &Classifier{reg: reg}
}

// transferMsgTypes are the message types handled by the transfer-like
// strategy. Request-suffix variants match the same entry.
var transferMsgTypes = map[string]bool{
	"MsgSend":            true,
	"MsgTransfer":        true,
	"RetryIBCTransfer":   true,
	"RouteIBCTransfers":  true,
	"MsgUpdateClient":    true,
	"MsgAcknowledgement": true,
	"SignCommands":       true,
}

// confirmMsgTypes are the hub confirmation and vote message types.
var confirmMsgTypes = map[string]bool{
	"ConfirmDeposit":     true,
	"ConfirmToken":       true,
	"ConfirmGatewayTx":   true,
	"ConfirmTransferKey": true,
	"Vote":               true,
}

// Classify dispatches through the strategies in order and uses the
// first one whose message-type predicate matches. A transaction nothing
// matched yields an empty list when it succeeded on chain, and a single
// failed sentinel when it did not.
func (c *Classifier) Classify(tx domain.RawTransaction) []domain.Activity {
	var out []domain.Activity

	switch {
	case c.matchesAny(tx, transferMsgTypes):
		out = c.classifyTransfers(tx)
	case c.matchesAny(tx, confirmMsgTypes):
		out = c.classifyConfirms(tx)
	default:
		out = c.classifyFromLogs(tx)
	}

	if len(out) == 0 && tx.Code != 0 {
		return []domain.Activity{{Failed: true}}
	}
	return out
}

func (c *Classifier) matchesAny(tx domain.RawTransaction, set map[string]bool) bool {
	for _, msg := range tx.Messages {
		if matchesSet(msgType(msg), set) {
			return true
		}
	}
	return false
}

// matchesSet treats "XRequest" as a match for a set entry "X": the hub
// wraps most operations in Request messages.
func matchesSet(typ string, set map[string]bool) bool {
	if set[typ] {
		return true
	}
	if len(typ) > len("Request") && typ[len(typ)-len("Request"):] == "Request" {
		return set[typ[:len(typ)-len("Request")]]
	}
	return false
}

// classifyTransfers handles bank sends, IBC transfers and command
// signing. Field aliases map onto the normalized shape, the amount
// comes from the message itself or a matched send_packet event, and a
// list-valued amount expands into one activity per entry.
func (c *Classifier) classifyTransfers(tx domain.RawTransaction) []domain.Activity {
	var out []domain.Activity
	for i, msg := range tx.Messages {
		typ := msgType(msg)
		if !matchesSet(typ, transferMsgTypes) {
			continue
		}

		base := domain.Activity{
			Type:      typ,
			Sender:    getString(msg, "from_address", "sender", "signer"),
			Recipient: nilIfEmpty(getString(msg, "to_address", "receiver", "recipient")),
			Signer:    getString(msg, "signer"),
			Chain:     getString(msg, "chain"),
		}

		coins := c.messageCoins(msg)
		if len(coins) == 0 {
			coins = c.packetCoins(tx, i)
		}

		if len(coins) == 0 {
			out = append(out, base)
			continue
		}
		for _, coin := range coins {
			a := base
			c.applyCoin(&a, coin.denom, coin.amount)
			out = append(out, a)
		}
	}
	return out
}

type coin struct {
	denom  string
	amount string
}

// messageCoins reads the message's own amount field, which is either a
// single coin object, a list of them, or absent. MsgTransfer carries
// its coin under "token".
func (c *Classifier) messageCoins(msg map[string]any) []coin {
	var out []coin
	switch v := msg["amount"].(type) {
	case []any:
		for _, e := range v {
			if m, ok := e.(map[string]any); ok {
				out = append(out, coin{denom: getString(m, "denom"), amount: getString(m, "amount")})
			}
		}
	case map[string]any:
		out = append(out, coin{denom: getString(v, "denom"), amount: getString(v, "amount")})
	}
	if token := getMap(msg, "token"); token != nil {
		out = append(out, coin{denom: getString(token, "denom"), amount: getString(token, "amount")})
	}
	return out
}

// packetCoins recovers the coin from the send_packet event of the
// message's log, for IBC transfers whose message omits the amount.
func (c *Classifier) packetCoins(tx domain.RawTransaction, msgIndex int) []coin {
	for _, log := range tx.Logs {
		if log.MsgIndex != msgIndex {
			continue
		}
		for _, ev := range log.Events {
			if ev.Type != "send_packet" {
				continue
			}
			data, ok := ev.Attr("packet_data")
			if !ok {
				continue
			}
			var packet map[string]any
			if err := json.Unmarshal([]byte(data), &packet); err != nil {
				continue
			}
			if amount := getString(packet, "amount"); amount != "" {
				return []coin{{denom: getString(packet, "denom"), amount: amount}}
			}
		}
	}
	return nil
}

// applyCoin attaches denom, symbol and scaled amount to an activity.
// Unknown denoms keep the raw denom with no scaling; unparseable
// amounts leave amount and symbol unset.
func (c *Classifier) applyCoin(a *domain.Activity, denom, amount string) {
	a.Denom = denom
	asset, known := c.reg.Asset(denom)
	if !known {
		return
	}
	a.Symbol = asset.Symbol
	a.Asset = &asset
	if scaled, ok := ScaleAmount(amount, asset.Decimals); ok {
		a.Amount = &scaled
	}
}

// classifyConfirms handles deposit/token/gateway confirmations and
// votes. Values nested inside the inner vote.events[0] structure are
// preferred over the message's top-level fields, and object-valued
// vote-event fields flatten into a generic events list with
// hex-decoded members.
func (c *Classifier) classifyConfirms(tx domain.RawTransaction) []domain.Activity {
	var out []domain.Activity
	for _, msg := range tx.Messages {
		typ := msgType(msg)
		if !matchesSet(typ, confirmMsgTypes) {
			continue
		}

		a := domain.Activity{
			Type:   typ,
			Sender: getString(msg, "sender"),
			Chain:  getString(msg, "chain"),
			Status: getString(msg, "status"),
			PollID: pollID(msg),
		}
		if txID, ok := msg["tx_id"]; ok {
			a.TxID = asString(decodeHexValue(txID))
		}
		if denom := getString(msg, "denom", "asset"); denom != "" {
			a.Denom = denom
			if asset, ok := c.reg.Asset(denom); ok {
				a.Symbol = asset.Symbol
				a.Asset = &asset
			}
		}

		if inner := innerVoteEvent(msg); inner != nil {
			if chain := getString(inner, "chain"); chain != "" {
				a.Chain = chain
			}
			if status := getString(inner, "status"); status != "" {
				a.Status = status
			}
			if txID, ok := inner["tx_id"]; ok {
				a.TxID = asString(decodeHexValue(txID))
			}
			a.Events = flattenVoteEvent(inner)
		}

		out = append(out, a)
	}
	return out
}

// innerVoteEvent returns vote.events[0] when the message carries one.
func innerVoteEvent(msg map[string]any) map[string]any {
	vote := getMap(msg, "vote")
	if vote == nil {
		return nil
	}
	events := getSlice(vote, "events")
	if len(events) == 0 {
		return nil
	}
	first, _ := events[0].(map[string]any)
	return first
}

// flattenVoteEvent turns each object-valued field of a vote event into
// one {event, ...fields} record with hex-decoded values. Keys are
// visited in sorted order so repeated classification of the same input
// yields the same event list.
func flattenVoteEvent(ev map[string]any) []domain.RawEvent {
	keys := make([]string, 0, len(ev))
	for key := range ev {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var out []domain.RawEvent
	for _, key := range keys {
		obj, ok := ev[key].(map[string]any)
		if !ok {
			continue
		}
		flat := domain.RawEvent{"event": key}
		for k, v := range obj {
			flat[k] = decodeHexValue(v)
		}
		out = append(out, flat)
	}
	return out
}

func pollID(msg map[string]any) string {
	if id := getString(msg, "poll_id"); id != "" {
		return id
	}
	if key := getMap(msg, "poll_key"); key != nil {
		return getString(key, "id")
	}
	return ""
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
