package domain

// ChainType classifies how a chain participates in a transfer.
type ChainType string

const (
	ChainTypeEVM       ChainType = "evm"
	ChainTypeCosmos    ChainType = "cosmos"
	ChainTypeAxelarnet ChainType = "axelarnet"
)

// Axelarnet is the id of the hub chain itself.
const Axelarnet = "axelarnet"

// ExplorerTemplates holds URL templates for deep links into a chain explorer.
type ExplorerTemplates struct {
	BaseURL           string `yaml:"base_url"           json:"base_url"`
	TxPathTemplate    string `yaml:"tx_path"            json:"tx_path"`
	BlockPathTemplate string `yaml:"block_path"         json:"block_path"`
}

// ChainRef is an immutable per-chain descriptor loaded once per session
// from the chain registry.
type ChainRef struct {
	ID       string            `yaml:"id"       json:"id"`
	Name     string            `yaml:"name"     json:"name"`
	Type     ChainType         `yaml:"type"     json:"chain_type"`
	Explorer ExplorerTemplates `yaml:"explorer" json:"explorer"`
}

// IsEVM reports whether the chain executes EVM transactions.
func (c ChainRef) IsEVM() bool { return c.Type == ChainTypeEVM }

// IsCosmos reports whether the chain is a Cosmos-SDK chain (the hub included).
func (c ChainRef) IsCosmos() bool {
	return c.Type == ChainTypeCosmos || c.Type == ChainTypeAxelarnet
}

// IsAxelarnet reports whether the chain is the hub itself.
func (c ChainRef) IsAxelarnet() bool {
	return c.Type == ChainTypeAxelarnet || c.ID == Axelarnet
}

// AssetRef describes one registered token denomination.
type AssetRef struct {
	Denom    string `yaml:"denom"    json:"denom"`
	Symbol   string `yaml:"symbol"   json:"symbol"`
	Decimals int32  `yaml:"decimals" json:"decimals"`
}
