package usecase

import (
	"context"
	"log/slog"
	"strings"

	"stocksentiment/internal/ports"
)

// Resolver maps free-form user input (ticker, company name, "$TICKER") to a
// canonical symbol. Symbol-search enrichment is best-effort: when the
// service is unreachable or yields nothing, the uppercased input stands in.
type Resolver struct {
	search ports.SymbolSearcher
	logger *slog.Logger
}

// NewResolver wires the optional symbol-search backend; a nil searcher
// disables enrichment entirely.
func NewResolver(search ports.SymbolSearcher, logger *slog.Logger) *Resolver {
	return &Resolver{search: search, logger: logger}
}

// Resolve applies the resolution rules in order: trim, strip a leading "$",
// pass suffixed symbols through uppercased, otherwise consult symbol search
// with a silent fallback to the uppercased input. Empty input resolves to
// the empty string; the caller must treat that as an error.
func (r *Resolver) Resolve(ctx context.Context, input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}

	input = strings.TrimPrefix(input, "$")
	if input == "" {
		return ""
	}

	// Already exchange-suffixed; no lookup needed.
	if strings.Contains(input, ".") {
		return strings.ToUpper(input)
	}

	if r.search != nil {
		matches, err := r.search.Search(ctx, input)
		if err != nil {
			if r.logger != nil {
				r.logger.Debug("symbol search unavailable", "input", input, "error", err)
			}
		} else if len(matches) > 0 && matches[0].Symbol != "" {
			return strings.ToUpper(matches[0].Symbol)
		}
	}

	return strings.ToUpper(input)
}
