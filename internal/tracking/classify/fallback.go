package classify

import (
	"github.com/crossscan/crossscan/internal/core/domain"
)

// splitEventTypes are log events that embed one record per
// delegation/transfer pair inside a single attribute stream.
var splitEventTypes = map[string]bool{
	"delegate": true,
	"unbond":   true,
	"transfer": true,
}

// classifyFromLogs is the fallback strategy for transactions without a
// canonical message schema: it scans the log events directly.
// delegate/unbond/transfer events are split into repeated records;
// every other event merges into one flattened record by field union,
// with recipient collected as a de-duplicated list.
func (c *Classifier) classifyFromLogs(tx domain.RawTransaction) []domain.Activity {
	var out []domain.Activity

	merged := domain.Activity{Fields: map[string]any{}}
	var recipients []string
	mergedAny := false

	for _, log := range tx.Logs {
		for _, ev := range log.Events {
			typ := LastTypeSegment(ev.Type)
			if splitEventTypes[typ] {
				out = append(out, c.splitRepeated(typ, ev)...)
				continue
			}
			for _, attr := range ev.Attributes {
				mergedAny = true
				switch attr.Key {
				case "recipient":
					recipients = appendUnique(recipients, attr.Value)
				case "sender":
					if merged.Sender == "" {
						merged.Sender = attr.Value
					}
				default:
					if _, exists := merged.Fields[attr.Key]; !exists {
						merged.Fields[attr.Key] = attr.Value
					}
				}
			}
			if merged.Type == "" {
				merged.Type = typ
			}
		}
	}

	if mergedAny {
		if len(recipients) > 0 {
			merged.Recipient = recipients
		}
		out = append(out, merged)
	}
	return out
}

// splitRepeated reconstructs the repeated records embedded in one
// delegate/unbond/transfer event. The attribute stream repeats a fixed
// schema per record; the terminator is whichever of "amount" and
// "denom" appears second in that schema, so encountering it closes the
// current record.
func (c *Classifier) splitRepeated(typ string, ev domain.Event) []domain.Activity {
	boundary := recordBoundary(ev)

	var out []domain.Activity
	current := map[string]string{}

	flush := func() {
		if len(current) == 0 {
			return
		}
		out = append(out, c.recordActivity(typ, current))
		current = map[string]string{}
	}

	for _, attr := range ev.Attributes {
		current[attr.Key] = attr.Value
		if attr.Key == boundary {
			flush()
		}
	}
	flush()
	return out
}

// recordBoundary picks the record terminator key: of "amount" and
// "denom", the one occurring later in the first record's schema. An
// event carrying neither never splits.
func recordBoundary(ev domain.Event) string {
	amountAt, denomAt := -1, -1
	for i, attr := range ev.Attributes {
		if attr.Key == "amount" && amountAt < 0 {
			amountAt = i
		}
		if attr.Key == "denom" && denomAt < 0 {
			denomAt = i
		}
	}
	switch {
	case amountAt >= 0 && denomAt >= 0:
		if denomAt > amountAt {
			return "denom"
		}
		return "amount"
	case amountAt >= 0:
		return "amount"
	case denomAt >= 0:
		return "denom"
	}
	return ""
}

// recordActivity converts one split record into an activity, decoding
// the coin via the asset registry.
func (c *Classifier) recordActivity(typ string, record map[string]string) domain.Activity {
	a := domain.Activity{Type: typ, Fields: map[string]any{}}

	for key, value := range record {
		switch key {
		case "sender":
			a.Sender = value
		case "recipient":
			a.Recipient = value
		case "amount", "denom":
			// handled below
		default:
			a.Fields[key] = value
		}
	}
	if len(a.Fields) == 0 {
		a.Fields = nil
	}

	denom := record["denom"]
	amount := record["amount"]
	if denom == "" && amount != "" {
		// Coin strings like "1000000uaxl" carry the denom as suffix.
		if mantissa, suffix, ok := SplitAmountDenom(amount); ok && suffix != "" {
			amount, denom = mantissa, suffix
		}
	}
	if denom != "" {
		c.applyCoin(&a, denom, amount)
	}
	return a
}

func appendUnique(list []string, v string) []string {
	for _, e := range list {
		if e == v {
			return list
		}
	}
	return append(list, v)
}
