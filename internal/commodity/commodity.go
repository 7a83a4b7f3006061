// Package commodity identifies currencies and securities.
package commodity

import (
	"errors"
	"fmt"
	"strings"
)

// Namespaces that denote ISO 4217 currencies.
const (
	NamespaceISO4217 = "ISO4217"
	NamespaceLegacy  = "CURRENCY"
)

// ErrInvalidCode is returned for a currency code that is not three letters.
var ErrInvalidCode = errors.New("invalid currency code")

// Kind distinguishes currencies from other commodities.
type Kind int

const (
	KindCurrency Kind = iota + 1
	KindSecurity
)

// ID is a currency (ISO code) or a security (namespace + symbol).
// The zero value is "no commodity". IDs compare with ==.
type ID struct {
	kind      Kind
	namespace string
	code      string
}

// Currency returns the currency with the given ISO 4217 code.
func Currency(code string) (ID, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return ID{}, fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return ID{}, fmt.Errorf("%w: %q", ErrInvalidCode, code)
		}
	}
	return ID{kind: KindCurrency, namespace: NamespaceISO4217, code: code}, nil
}

// MustCurrency is like Currency but panics on an invalid code.
func MustCurrency(code string) ID {
	id, err := Currency(code)
	if err != nil {
		panic(err)
	}
	return id
}

// Security returns a non-currency commodity such as a stock or fund.
func Security(namespace, symbol string) (ID, error) {
	namespace = strings.TrimSpace(namespace)
	symbol = strings.TrimSpace(symbol)
	if namespace == "" || symbol == "" {
		return ID{}, fmt.Errorf("security needs namespace and symbol, got %q:%q", namespace, symbol)
	}
	return ID{kind: KindSecurity, namespace: namespace, code: symbol}, nil
}

// Parse maps a book's (space, id) pair to an ID.
func Parse(namespace, id string) (ID, error) {
	switch strings.ToUpper(strings.TrimSpace(namespace)) {
	case NamespaceISO4217, NamespaceLegacy:
		return Currency(id)
	default:
		return Security(namespace, id)
	}
}

// IsZero reports whether id is unset.
func (id ID) IsZero() bool { return id.kind == 0 }

// IsCurrency reports whether id is a currency.
func (id ID) IsCurrency() bool { return id.kind == KindCurrency }

// Kind returns the variant.
func (id ID) Kind() Kind { return id.kind }

// Namespace returns the commodity namespace.
func (id ID) Namespace() string { return id.namespace }

// Code returns the currency code or security symbol.
func (id ID) Code() string { return id.code }

// String returns "EUR" for currencies and "NASDAQ:AAPL" for securities.
func (id ID) String() string {
	switch id.kind {
	case KindCurrency:
		return id.code
	case KindSecurity:
		return id.namespace + ":" + id.code
	default:
		return ""
	}
}

// Commodity is a commodity definition from the book.
type Commodity struct {
	ID       ID
	Name     string
	Fraction int64 // smallest unit, e.g. 100 for cents
}
