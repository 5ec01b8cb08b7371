package domain

// Message is one Cosmos transaction message. Upstream shapes are open
// maps keyed by field name, with the protobuf type URL under "@type".
type Message = map[string]any

// Attribute is one key/value pair of a log event.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Event is one typed event of a transaction log.
type Event struct {
	Type       string      `json:"type"`
	Attributes []Attribute `json:"attributes"`
}

// Log is the event group emitted by one message of a transaction.
type Log struct {
	MsgIndex int     `json:"msg_index"`
	Events   []Event `json:"events"`
}

// RawTransaction is the opaque per-transaction input from the chain's
// query layer. Code != 0 signals on-chain failure.
type RawTransaction struct {
	TxHash    string    `json:"txhash"`
	Height    int64     `json:"height"`
	Code      int       `json:"code"`
	Timestamp int64     `json:"timestamp"`
	Types     []string  `json:"types,omitempty"`
	Messages  []Message `json:"messages"`
	Logs      []Log     `json:"logs"`
}

// Attr returns the value of the named attribute and whether it exists.
func (e Event) Attr(key string) (string, bool) {
	for _, a := range e.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}
