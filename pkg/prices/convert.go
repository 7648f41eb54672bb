package prices

import (
	"github.com/shopspring/decimal"

	"github.com/n1protocol/portal/pkg/catalog"
)

const (
	stableDisplayPlaces   = 2
	volatileDisplayPlaces = 6
)

// USDToToken converts a USD amount into a token amount at the given USD price.
// A price of zero or below means the price is unknown; the conversion returns
// zero rather than dividing.
func USDToToken(usdAmount, tokenPriceUSD decimal.Decimal) decimal.Decimal {
	if tokenPriceUSD.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return usdAmount.Div(tokenPriceUSD)
}

// TokenToUSD converts a token amount into USD at the given USD price.
func TokenToUSD(tokenAmount, tokenPriceUSD decimal.Decimal) decimal.Decimal {
	return tokenAmount.Mul(tokenPriceUSD)
}

// FormatAmount renders a token amount for display: two decimal places for
// USD-pegged symbols, six for ETH and WBTC. Stored values keep full precision;
// this is presentation only.
func FormatAmount(symbol string, amount decimal.Decimal) string {
	if catalog.IsStablecoin(symbol) {
		return amount.StringFixed(stableDisplayPlaces)
	}
	return amount.StringFixed(volatileDisplayPlaces)
}
