package chainindex

import "strings"

// ProtocolInfo carries security and liquidity metadata for a bridge
// protocol. The data is curated from protocol docs and audit reports,
// not fetched from any API; quotes are enriched with it after
// normalization.
type ProtocolInfo struct {
	Name        string `json:"name"`
	Security    string `json:"security"`
	Liquidity   string `json:"liquidity"`
	AuditStatus string `json:"auditStatus"`
	Description string `json:"description"`
	TVL         string `json:"tvl"`
}

// DefaultProtocolInfo is returned for tool keys with no entry.
var DefaultProtocolInfo = ProtocolInfo{
	Name:        "Unknown",
	Security:    "Unspecified",
	Liquidity:   "Unknown",
	AuditStatus: "Unknown",
	Description: "Protocol information not available",
	TVL:         "Unknown",
}

var protocolInfo = map[string]ProtocolInfo{
	"across": {
		Name: "Across", Security: "Optimistic Oracle", Liquidity: "High",
		AuditStatus: "Audited", Description: "Intent-based bridge with optimistic verification", TVL: "High",
	},
	"stargate": {
		Name: "Stargate", Security: "LayerZero", Liquidity: "Very High",
		AuditStatus: "Audited", Description: "Omnichain liquidity protocol powered by LayerZero", TVL: "Very High",
	},
	"hop": {
		Name: "Hop Protocol", Security: "Optimistic Rollup", Liquidity: "Medium",
		AuditStatus: "Audited", Description: "Rollup-to-rollup general token bridge", TVL: "Medium",
	},
	"connext": {
		Name: "Connext", Security: "Modular", Liquidity: "Medium",
		AuditStatus: "Audited", Description: "Modular interoperability protocol", TVL: "Medium",
	},
	"amarok": {
		Name: "Amarok", Security: "Modular", Liquidity: "Medium",
		AuditStatus: "Audited", Description: "Connext Amarok upgrade", TVL: "Medium",
	},
	"cbridge": {
		Name: "Celer cBridge", Security: "PoS Validation", Liquidity: "High",
		AuditStatus: "Audited", Description: "Cross-chain liquidity network", TVL: "High",
	},
	"synapse": {
		Name: "Synapse", Security: "Multi-Party Computation", Liquidity: "High",
		AuditStatus: "Audited", Description: "Cross-chain liquidity protocol", TVL: "High",
	},
	"multichain": {
		Name: "Multichain", Security: "MPC Network", Liquidity: "High",
		AuditStatus: "Audited", Description: "Cross-chain router protocol", TVL: "High",
	},
	"wormhole": {
		Name: "Wormhole", Security: "Guardian Network", Liquidity: "Medium",
		AuditStatus: "Audited", Description: "Generic message passing protocol", TVL: "High",
	},
	"axelar": {
		Name: "Axelar", Security: "Proof of Stake", Liquidity: "Medium",
		AuditStatus: "Audited", Description: "Universal interoperability network", TVL: "Medium",
	},
	"squid": {
		Name: "Squid", Security: "Axelar GMP", Liquidity: "High",
		AuditStatus: "Audited", Description: "Cross-chain swap and liquidity routing", TVL: "High",
	},
	"feeCollection": {
		Name: "LiFi Fee", Security: "Smart Contract", Liquidity: "N/A",
		AuditStatus: "Audited", Description: "LiFi integrator fee collection mechanism", TVL: "N/A",
	},
	"socket": {
		Name: "Socket", Security: "Multi-Bridge Aggregator", Liquidity: "Aggregated",
		AuditStatus: "Audited", Description: "Meta-aggregator for bridge protocols", TVL: "Aggregated",
	},
	"rango": {
		Name: "Rango", Security: "Multi-Protocol", Liquidity: "Aggregated",
		AuditStatus: "Audited", Description: "Cross-chain DEX aggregator", TVL: "Aggregated",
	},
	"xyfinance": {
		Name: "XY Finance", Security: "Y Pool", Liquidity: "High",
		AuditStatus: "Audited", Description: "Cross-chain swap aggregator", TVL: "High",
	},
	"rubic": {
		Name: "Rubic", Security: "Multi-Chain", Liquidity: "Aggregated",
		AuditStatus: "Audited", Description: "Cross-chain trading platform", TVL: "Medium",
	},
	"openocean": {
		Name: "OpenOcean", Security: "DEX Aggregator", Liquidity: "High",
		AuditStatus: "Audited", Description: "Full aggregation protocol", TVL: "High",
	},
	"0x": {
		Name: "0x Protocol", Security: "Audited", Liquidity: "High",
		AuditStatus: "Audited", Description: "Decentralized exchange infrastructure", TVL: "High",
	},
	"1inch": {
		Name: "1inch", Security: "Audited", Liquidity: "Very High",
		AuditStatus: "Audited", Description: "DEX aggregator with Fusion+", TVL: "Very High",
	},
	"jumper": {
		Name: "Jumper", Security: "LI.FI", Liquidity: "High",
		AuditStatus: "Audited", Description: "LiFi-powered bridge interface", TVL: "High",
	},
	"meson": {
		Name: "Meson", Security: "Atomic Swap", Liquidity: "Medium",
		AuditStatus: "Audited", Description: "Fast atomic swap protocol", TVL: "Medium",
	},
	"debridge": {
		Name: "deBridge", Security: "Validator Network", Liquidity: "High",
		AuditStatus: "Audited", Description: "Cross-chain interoperability protocol", TVL: "High",
	},
	"symbiosis": {
		Name: "Symbiosis", Security: "Multi-Chain", Liquidity: "Medium",
		AuditStatus: "Audited", Description: "Cross-chain AMM DEX", TVL: "Medium",
	},
}

// ProtocolByTool returns the metadata for a tool key, falling back to
// DefaultProtocolInfo for unknown or empty keys. Lookup is
// case-insensitive except for the feeCollection key li.quest emits.
func ProtocolByTool(toolKey string) ProtocolInfo {
	if toolKey == "" {
		return DefaultProtocolInfo
	}
	if info, ok := protocolInfo[strings.TrimSpace(toolKey)]; ok {
		return info
	}
	if info, ok := protocolInfo[strings.ToLower(strings.TrimSpace(toolKey))]; ok {
		return info
	}
	return DefaultProtocolInfo
}

// KnownProtocol reports whether a tool key has curated metadata.
func KnownProtocol(toolKey string) bool {
	if toolKey == "" {
		return false
	}
	_, ok := protocolInfo[strings.ToLower(strings.TrimSpace(toolKey))]
	return ok
}
