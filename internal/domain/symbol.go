package domain

import "strings"

// defaultMarketSuffix is appended to bare tickers for the quote provider,
// which requires an exchange-qualified symbol.
const defaultMarketSuffix = ".US"

// ResolvedSymbol carries both symbol forms used across the system.
// Canonical is the bare uppercased ticker used as the cross-provider join
// key; ProviderSymbol is the exchange-suffixed form the quote source wants.
type ResolvedSymbol struct {
	Canonical      string
	ProviderSymbol string
}

// NewResolvedSymbol derives both forms from a canonical ticker.
func NewResolvedSymbol(canonical string) ResolvedSymbol {
	canonical = Canonicalize(canonical)
	return ResolvedSymbol{
		Canonical:      canonical,
		ProviderSymbol: ToProviderSymbol(canonical),
	}
}

// Canonicalize strips any exchange suffix and uppercases the ticker.
func Canonicalize(symbol string) string {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return ""
	}
	if i := strings.Index(symbol, "."); i >= 0 {
		symbol = symbol[:i]
	}
	return strings.ToUpper(symbol)
}

// ToProviderSymbol uppercases a ticker and appends the default market suffix
// when no exchange suffix is present. Empty input yields empty output.
func ToProviderSymbol(symbol string) string {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return ""
	}
	symbol = strings.ToUpper(symbol)
	if strings.Contains(symbol, ".") {
		return symbol
	}
	return symbol + defaultMarketSuffix
}
