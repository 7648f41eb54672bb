// Package catalog holds the static registry of chains and tokens the donation
// flow supports. All lookups are pure functions over the registry data.
package catalog

import "sort"

// Token is a listing of an asset on a specific chain. The same symbol may be
// listed on several chains with different contract addresses. An empty Address
// marks the chain's native asset.
type Token struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int    `json:"decimals"`
	Address  string `json:"address,omitempty"`
	ChainID  int64  `json:"chain_id"`
}

// Chain is an immutable registry entry for a supported network.
// GasPriority ranks networks by transaction-cost cheapness, lower = cheaper.
type Chain struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	NativeSymbol string `json:"native_symbol"`
	GasPriority  int    `json:"gas_priority"`
	Icon         string `json:"icon"`
}

const (
	ChainEthereum int64 = 1
	ChainOptimism int64 = 10
	ChainPolygon  int64 = 137
	ChainBase     int64 = 8453
	ChainArbitrum int64 = 42161
)

var chains = []Chain{
	{ID: ChainEthereum, Name: "Ethereum", NativeSymbol: "ETH", GasPriority: 5, Icon: "ethereum"},
	{ID: ChainPolygon, Name: "Polygon", NativeSymbol: "POL", GasPriority: 1, Icon: "polygon"},
	{ID: ChainBase, Name: "Base", NativeSymbol: "ETH", GasPriority: 2, Icon: "base"},
	{ID: ChainArbitrum, Name: "Arbitrum One", NativeSymbol: "ETH", GasPriority: 3, Icon: "arbitrum"},
	{ID: ChainOptimism, Name: "OP Mainnet", NativeSymbol: "ETH", GasPriority: 4, Icon: "optimism"},
}

var tokens = []Token{
	// Ethereum mainnet
	{Symbol: "ETH", Name: "Ether", Decimals: 18, ChainID: ChainEthereum},
	{Symbol: "WBTC", Name: "Wrapped Bitcoin", Decimals: 8, Address: "0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599", ChainID: ChainEthereum},
	{Symbol: "USDC", Name: "USD Coin", Decimals: 6, Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", ChainID: ChainEthereum},
	{Symbol: "USDT", Name: "Tether USD", Decimals: 6, Address: "0xdAC17F958D2ee523a2206206994597C13D831ec7", ChainID: ChainEthereum},
	{Symbol: "DAI", Name: "Dai Stablecoin", Decimals: 18, Address: "0x6B175474E89094C44Da98b954EedeAC495271d0F", ChainID: ChainEthereum},

	// Polygon
	{Symbol: "WBTC", Name: "Wrapped Bitcoin", Decimals: 8, Address: "0x1BFD67037B42Cf73acF2047067bd4F2C47D9BfD6", ChainID: ChainPolygon},
	{Symbol: "USDC", Name: "USD Coin", Decimals: 6, Address: "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359", ChainID: ChainPolygon},
	{Symbol: "USDT", Name: "Tether USD", Decimals: 6, Address: "0xc2132D05D31c914a87C6611C10748AEb04B58e8F", ChainID: ChainPolygon},
	{Symbol: "DAI", Name: "Dai Stablecoin", Decimals: 18, Address: "0x8f3Cf7ad23Cd3CaDbD9735AFf958023239c6A063", ChainID: ChainPolygon},

	// Base
	{Symbol: "ETH", Name: "Ether", Decimals: 18, ChainID: ChainBase},
	{Symbol: "USDC", Name: "USD Coin", Decimals: 6, Address: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913", ChainID: ChainBase},
	{Symbol: "DAI", Name: "Dai Stablecoin", Decimals: 18, Address: "0x50c5725949A6F0c72E6C4a641F24049A917DB0Cb", ChainID: ChainBase},

	// Arbitrum One
	{Symbol: "ETH", Name: "Ether", Decimals: 18, ChainID: ChainArbitrum},
	{Symbol: "WBTC", Name: "Wrapped Bitcoin", Decimals: 8, Address: "0x2f2a2543B76A4166549F7aaB2e75Bef0aefC5B0f", ChainID: ChainArbitrum},
	{Symbol: "USDC", Name: "USD Coin", Decimals: 6, Address: "0xaf88d065e77c8cC2239327C5EDb3A432268e5831", ChainID: ChainArbitrum},
	{Symbol: "USDT", Name: "Tether USD", Decimals: 6, Address: "0xFd086bC7CD5C481DCC9C85ebE478A1C0b69FCbb9", ChainID: ChainArbitrum},
	{Symbol: "DAI", Name: "Dai Stablecoin", Decimals: 18, Address: "0xDA10009cBd5D07dd0CeCc66161FC93D7c9000da1", ChainID: ChainArbitrum},

	// OP Mainnet
	{Symbol: "ETH", Name: "Ether", Decimals: 18, ChainID: ChainOptimism},
	{Symbol: "WBTC", Name: "Wrapped Bitcoin", Decimals: 8, Address: "0x68f180fcCe6836688e9084f035309E29Bf0A2095", ChainID: ChainOptimism},
	{Symbol: "USDC", Name: "USD Coin", Decimals: 6, Address: "0x0b2C639c533813f4Aa9D7837CAf62653d097Ff85", ChainID: ChainOptimism},
	{Symbol: "USDT", Name: "Tether USD", Decimals: 6, Address: "0x94b008aA00579c1307B0EF2c499aD98a8ce58e58", ChainID: ChainOptimism},
	{Symbol: "DAI", Name: "Dai Stablecoin", Decimals: 18, Address: "0xDA10009cBd5D07dd0CeCc66161FC93D7c9000da1", ChainID: ChainOptimism},
}

// Symbols is the closed set of supported token symbols.
var Symbols = []string{"ETH", "WBTC", "USDC", "USDT", "DAI"}

var stablecoins = map[string]bool{
	"USDC": true,
	"USDT": true,
	"DAI":  true,
}

// providerIDs maps token symbols to the price provider's asset identifiers.
var providerIDs = map[string]string{
	"ETH":  "ethereum",
	"WBTC": "wrapped-bitcoin",
	"USDC": "usd-coin",
	"USDT": "tether",
	"DAI":  "dai",
}

// Chains returns all registered chains in registry order.
func Chains() []Chain {
	out := make([]Chain, len(chains))
	copy(out, chains)
	return out
}

// ChainByID looks up a chain by its chain ID.
func ChainByID(chainID int64) (Chain, bool) {
	for _, c := range chains {
		if c.ID == chainID {
			return c, true
		}
	}
	return Chain{}, false
}

// TokensForChain returns all token listings on the given chain, in registry order.
func TokensForChain(chainID int64) []Token {
	var out []Token
	for _, t := range tokens {
		if t.ChainID == chainID {
			out = append(out, t)
		}
	}
	return out
}

// NativeToken returns the chain's native asset listing, if any. The native
// asset is the unique listing on that chain without a contract address.
func NativeToken(chainID int64) (Token, bool) {
	for _, t := range tokens {
		if t.ChainID == chainID && t.Address == "" {
			return t, true
		}
	}
	return Token{}, false
}

// ChainsForToken returns every chain-listing of a symbol, sorted ascending by
// the listing chain's gas priority. The sort is stable, so listings on chains
// with equal priority keep registry order.
func ChainsForToken(symbol string) []Token {
	var out []Token
	for _, t := range tokens {
		if t.Symbol == symbol {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return gasPriority(out[i].ChainID) < gasPriority(out[j].ChainID)
	})
	return out
}

// CheapestChainFor returns the listing of a symbol on the cheapest chain.
func CheapestChainFor(symbol string) (Token, bool) {
	listings := ChainsForToken(symbol)
	if len(listings) == 0 {
		return Token{}, false
	}
	return listings[0], true
}

// AllTokensSorted returns every listing sorted by symbol, then by the listing
// chain's gas priority.
func AllTokensSorted() []Token {
	out := make([]Token, len(tokens))
	copy(out, tokens)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Symbol != out[j].Symbol {
			return out[i].Symbol < out[j].Symbol
		}
		return gasPriority(out[i].ChainID) < gasPriority(out[j].ChainID)
	})
	return out
}

// TokenListing looks up one token by (symbol, chainID) identity.
func TokenListing(symbol string, chainID int64) (Token, bool) {
	for _, t := range tokens {
		if t.Symbol == symbol && t.ChainID == chainID {
			return t, true
		}
	}
	return Token{}, false
}

// IsStablecoin reports whether the symbol is USD-pegged.
func IsStablecoin(symbol string) bool {
	return stablecoins[symbol]
}

// IsSupportedSymbol reports whether the symbol is in the supported set.
func IsSupportedSymbol(symbol string) bool {
	_, ok := providerIDs[symbol]
	return ok
}

// ProviderID returns the price provider's asset identifier for a symbol.
func ProviderID(symbol string) (string, bool) {
	id, ok := providerIDs[symbol]
	return id, ok
}

// SymbolForProviderID is the reverse of ProviderID.
func SymbolForProviderID(id string) (string, bool) {
	for sym, pid := range providerIDs {
		if pid == id {
			return sym, true
		}
	}
	return "", false
}

func gasPriority(chainID int64) int {
	c, ok := ChainByID(chainID)
	if !ok {
		return int(^uint(0) >> 1)
	}
	return c.GasPriority
}
