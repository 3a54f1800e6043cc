// Package chainindex holds the static chain, token and protocol tables
// used to resolve and annotate quotes. The data never computes a
// price; it only resolves addresses and decorates results.
package chainindex

import (
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

// ZeroAddress is the canonical empty EVM address.
var ZeroAddress = common.HexToAddress("0x0000000000000000000000000000000000000000")

// Chain IDs for the supported networks.
const (
	Ethereum  int64 = 1
	Optimism  int64 = 10
	BSC       int64 = 56
	Gnosis    int64 = 100
	Polygon   int64 = 137
	Fantom    int64 = 250
	Base      int64 = 8453
	Arbitrum  int64 = 42161
	Avalanche int64 = 43114
)

// Chain describes one supported network.
type Chain struct {
	Name     string
	Icon     string
	Native   string
	Decimals int
}

var chains = map[int64]Chain{
	Ethereum:  {Name: "Ethereum", Icon: "🔷", Native: "ETH", Decimals: 18},
	Polygon:   {Name: "Polygon", Icon: "🟣", Native: "MATIC", Decimals: 18},
	Arbitrum:  {Name: "Arbitrum", Icon: "🔵", Native: "ETH", Decimals: 18},
	Optimism:  {Name: "Optimism", Icon: "🔴", Native: "ETH", Decimals: 18},
	BSC:       {Name: "BSC", Icon: "🟡", Native: "BNB", Decimals: 18},
	Avalanche: {Name: "Avalanche", Icon: "🔺", Native: "AVAX", Decimals: 18},
	Base:      {Name: "Base", Icon: "🟦", Native: "ETH", Decimals: 18},
	Fantom:    {Name: "Fantom", Icon: "👻", Native: "FTM", Decimals: 18},
	Gnosis:    {Name: "Gnosis", Icon: "🦉", Native: "xDAI", Decimals: 18},
}

// ChainByID returns the chain entry for a chain ID.
func ChainByID(id int64) (Chain, bool) {
	c, ok := chains[id]
	return c, ok
}

// SupportedChain reports whether the chain ID is known.
func SupportedChain(id int64) bool {
	_, ok := chains[id]
	return ok
}

// SupportedChainIDs returns the known chain IDs in ascending order.
func SupportedChainIDs() []int64 {
	ids := make([]int64, 0, len(chains))
	for id := range chains {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
