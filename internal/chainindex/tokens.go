package chainindex

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Token describes a bridgeable token and its per-chain deployments.
type Token struct {
	Symbol    string
	Decimals  int
	Addresses map[int64]common.Address
}

// The sentinel li.quest/0x use for native ETH.
var nativeETH = common.HexToAddress("0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")

var tokens = map[string]Token{
	"ETH": {
		Symbol:   "ETH",
		Decimals: 18,
		Addresses: map[int64]common.Address{
			Ethereum:  nativeETH,
			Polygon:   common.HexToAddress("0x7ceb23fd6bc0add59e62ac25578270cff1b9f619"),
			Arbitrum:  nativeETH,
			Optimism:  nativeETH,
			BSC:       common.HexToAddress("0x2170ed0880ac9a755fd29b2688956bd959f933f8"),
			Avalanche: common.HexToAddress("0x49d5c2bdffac6ce2bfdb6640f4f80f226bc10bab"),
			Base:      nativeETH,
		},
	},
	"USDC": {
		Symbol:   "USDC",
		Decimals: 6,
		Addresses: map[int64]common.Address{
			Ethereum:  common.HexToAddress("0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"),
			Polygon:   common.HexToAddress("0x2791bca1f2de4661ed88a30c99a7a9449aa84174"),
			Arbitrum:  common.HexToAddress("0xff970a61a04b1ca14834a43f5de4533ebddb5cc8"),
			Optimism:  common.HexToAddress("0x7f5c764cbc14f9669b88837ca1490cca17c31607"),
			BSC:       common.HexToAddress("0x8ac76a51cc950d9822d68b83fe1ad97b32cd580d"),
			Avalanche: common.HexToAddress("0xb97ef9ef8734c71904d8002f8b6bc66dd9c48a6e"),
			Base:      common.HexToAddress("0x833589fcd6edb6e08f4c7c32d4f71b54bda02913"),
		},
	},
	"USDT": {
		Symbol:   "USDT",
		Decimals: 6,
		Addresses: map[int64]common.Address{
			Ethereum:  common.HexToAddress("0xdac17f958d2ee523a2206206994597c13d831ec7"),
			Polygon:   common.HexToAddress("0xc2132d05d31c914a87c6611c10748aeb04b58e8f"),
			BSC:       common.HexToAddress("0x55d398326f99059ff775485246999027b3197955"),
			Arbitrum:  common.HexToAddress("0xfd086bc7cd5c481dcc9c85ebe478a1c0b69fcbb9"),
			Optimism:  common.HexToAddress("0x94b008aa00579c1307b0ef2c499ad98a8ce58e58"),
			Avalanche: common.HexToAddress("0x9702230a8ea53601f5cd2dc00fdbc13d4df4a8c7"),
			Base:      common.HexToAddress("0xfde4c96c8593536e31f229ea8f37b2ada2699bb2"),
		},
	},
	"DAI": {
		Symbol:   "DAI",
		Decimals: 18,
		Addresses: map[int64]common.Address{
			Ethereum:  common.HexToAddress("0x6b175474e89094c44da98b954eedeac495271d0f"),
			Polygon:   common.HexToAddress("0x8f3cf7ad23cd3cadbd9735aff958023239c6a063"),
			Arbitrum:  common.HexToAddress("0xda10009cbd5d07dd0cecc66161fc93d7c9000da1"),
			Optimism:  common.HexToAddress("0xda10009cbd5d07dd0cecc66161fc93d7c9000da1"),
			BSC:       common.HexToAddress("0x1af3f329e8be154074d8769d1ffa4ee058b1dbc3"),
			Avalanche: common.HexToAddress("0xd586e7f844cea2f87f50152665bcbc2c279d8d70"),
			Base:      common.HexToAddress("0x50c5725949a6f0c72e6c4a641f24049a917db0cb"),
		},
	},
	"WETH": {
		Symbol:   "WETH",
		Decimals: 18,
		Addresses: map[int64]common.Address{
			Ethereum:  common.HexToAddress("0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"),
			Polygon:   common.HexToAddress("0x7ceb23fd6bc0add59e62ac25578270cff1b9f619"),
			Arbitrum:  common.HexToAddress("0x82af49447d8a07e3bd95bd0d56f35241523fbab1"),
			Optimism:  common.HexToAddress("0x4200000000000000000000000000000000000006"),
			BSC:       common.HexToAddress("0x2170ed0880ac9a755fd29b2688956bd959f933f8"),
			Avalanche: common.HexToAddress("0x49d5c2bdffac6ce2bfdb6640f4f80f226bc10bab"),
			Base:      common.HexToAddress("0x4200000000000000000000000000000000000006"),
		},
	},
	"WBTC": {
		Symbol:   "WBTC",
		Decimals: 8,
		Addresses: map[int64]common.Address{
			Ethereum:  common.HexToAddress("0x2260fac5e5542a773aa44fbcfedf7c193bc2c599"),
			Polygon:   common.HexToAddress("0x1bfd67037b42cf73acf2047067bd4f2c47d9bfd6"),
			Arbitrum:  common.HexToAddress("0x2f2a2543b76a4166549f7aab2e75bef0aefc5b0f"),
			Optimism:  common.HexToAddress("0x68f180fcce6836688e9084f035309e29bf0a2095"),
			BSC:       common.HexToAddress("0x7130d2a12b9bcbfae4f2634d864a1ee1ce3ead9c"),
			Avalanche: common.HexToAddress("0x50b7545627a5162f82a992c33b87adc75187b218"),
			Base:      common.HexToAddress("0x236aa50979d5f3de3bd1eeb40e81137f22ab794b"),
		},
	},
}

// TokenBySymbol looks up a token by its symbol, case-insensitively.
func TokenBySymbol(symbol string) (Token, bool) {
	t, ok := tokens[strings.ToUpper(strings.TrimSpace(symbol))]
	return t, ok
}

// TokenAddress resolves a token's contract address on a chain. Tokens
// with no deployment on the chain fall back to their Ethereum mainnet
// address, matching the resolution order providers expect.
func TokenAddress(symbol string, chainID int64) (common.Address, bool) {
	t, ok := TokenBySymbol(symbol)
	if !ok {
		return common.Address{}, false
	}
	if addr, ok := t.Addresses[chainID]; ok {
		return addr, true
	}
	if addr, ok := t.Addresses[Ethereum]; ok {
		return addr, true
	}
	return common.Address{}, false
}
