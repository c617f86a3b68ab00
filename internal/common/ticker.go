// Package common provides shared utilities across the application.
package common

import (
	"strings"
)

// Ticker represents a parsed exchange-qualified ticker.
// Format: EXCHANGE:CODE (e.g., "NASDAQ:META", "ASX:GNP")
type Ticker struct {
	// Exchange is the exchange code (e.g., "NASDAQ", "ASX", "US")
	Exchange string
	// Code is the security code (e.g., "META", "GNP")
	Code string
	// Raw is the original ticker string
	Raw string
}

// ExchangeToSuffix maps exchange codes to EODHD API suffixes.
var ExchangeToSuffix = map[string]string{
	"US":     ".US",
	"NYSE":   ".US",
	"NASDAQ": ".US",
	"AMEX":   ".US",
	"ASX":    ".AU",
	"AU":     ".AU",
	"LSE":    ".LSE",
	"TSX":    ".TO",
	"TO":     ".TO",
	"XETRA":  ".XETRA",
	"PA":     ".PA",
	"HK":     ".HK",
	"CC":     ".CC",    // crypto, e.g. BTC-USD.CC
	"FOREX":  ".FOREX", // e.g. EURUSD.FOREX
	"INDX":   ".INDX",  // indices, e.g. GSPC.INDX
}

// eodhdSuffixes are exchange suffixes accepted in CODE.SUFFIX form.
var eodhdSuffixes = map[string]bool{
	"US": true, "AU": true, "LSE": true, "TO": true, "XETRA": true,
	"PA": true, "HK": true, "CC": true, "FOREX": true, "INDX": true,
}

// DefaultExchange is the exchange used when parsing tickers without an exchange.
// Overridden via [market] default_exchange in TOML.
var DefaultExchange = "US"

// SetDefaultExchange sets the default exchange for parsing tickers.
func SetDefaultExchange(exchange string) {
	if exchange != "" {
		DefaultExchange = strings.ToUpper(exchange)
	}
}

// ParseTicker parses a ticker string.
// Supports formats:
//   - "NASDAQ:META" -> Exchange="NASDAQ", Code="META" (colon separator)
//   - "ASX.GNP"     -> Exchange="ASX", Code="GNP" (known exchange prefix)
//   - "META.US"     -> Exchange="US", Code="META" (EODHD form, known suffix)
//   - "meta"        -> Exchange=DefaultExchange, Code="META"
func ParseTicker(ticker string) Ticker {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return Ticker{}
	}

	if idx := strings.Index(ticker, ":"); idx > 0 {
		return Ticker{
			Exchange: strings.ToUpper(ticker[:idx]),
			Code:     strings.ToUpper(ticker[idx+1:]),
			Raw:      ticker,
		}
	}

	// Only match if the prefix is a known exchange to avoid conflicts with codes containing dots
	if idx := strings.Index(ticker, "."); idx > 0 {
		possibleExchange := strings.ToUpper(ticker[:idx])
		if _, ok := ExchangeToSuffix[possibleExchange]; ok {
			return Ticker{
				Exchange: possibleExchange,
				Code:     strings.ToUpper(ticker[idx+1:]),
				Raw:      ticker,
			}
		}
	}

	// Use LastIndex because codes can contain dots (e.g., "BRK.B.US")
	if idx := strings.LastIndex(ticker, "."); idx > 0 && idx < len(ticker)-1 {
		suffix := strings.ToUpper(ticker[idx+1:])
		if eodhdSuffixes[suffix] {
			return Ticker{
				Exchange: suffix,
				Code:     strings.ToUpper(ticker[:idx]),
				Raw:      ticker,
			}
		}
	}

	return Ticker{
		Exchange: DefaultExchange,
		Code:     strings.ToUpper(ticker),
		Raw:      ticker,
	}
}

// String returns the full exchange-qualified ticker string.
func (t Ticker) String() string {
	if t.Exchange == "" || t.Code == "" {
		return t.Code
	}
	return t.Exchange + ":" + t.Code
}

// EODHDSymbol returns the EODHD API symbol format.
// Example: "NASDAQ:META" -> "META.US"
func (t Ticker) EODHDSymbol() string {
	if t.Code == "" {
		return ""
	}
	suffix, ok := ExchangeToSuffix[t.Exchange]
	if !ok {
		// Unknown exchanges are passed through as EODHD suffixes
		suffix = "." + t.Exchange
	}
	return t.Code + suffix
}

// FileStem returns a filesystem-friendly name, e.g. "META_US".
func (t Ticker) FileStem() string {
	return strings.NewReplacer(".", "_", "/", "_", ":", "_").Replace(t.EODHDSymbol())
}

// ParseTickers parses a list of ticker strings, skipping empty entries.
func ParseTickers(tickers []string) []Ticker {
	result := make([]Ticker, 0, len(tickers))
	for _, t := range tickers {
		if parsed := ParseTicker(t); parsed.Code != "" {
			result = append(result, parsed)
		}
	}
	return result
}
