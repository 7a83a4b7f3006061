// Package prices holds a book's price quotes.
package prices

import (
	"fmt"
	"slices"
	"time"

	"github.com/gncx-dev/gncx/internal/commodity"
	"github.com/gncx-dev/gncx/internal/fixedpoint"
	"github.com/gncx-dev/gncx/internal/model"
)

// Price is the value of one unit of Commodity in Currency at Time.
type Price struct {
	ID        string
	Commodity commodity.ID
	Currency  commodity.ID
	Time      time.Time
	Source    string // e.g. "user:price-editor", "Finance::Quote"
	Type      string // e.g. "last", "nav", "unknown"
	Value     fixedpoint.Number
}

// New parses a raw price.
func New(rec model.PriceRecord) (*Price, error) {
	p := &Price{ID: rec.ID, Source: rec.Source, Type: rec.Type}
	var err error
	if p.Commodity, err = commodity.Parse(rec.CommoditySpace, rec.CommodityID); err != nil {
		return nil, model.Malformed("price", rec.ID, "commodity", rec.CommoditySpace+":"+rec.CommodityID, err)
	}
	if p.Currency, err = commodity.Parse(rec.CurrencySpace, rec.CurrencyID); err != nil {
		return nil, model.Malformed("price", rec.ID, "currency", rec.CurrencySpace+":"+rec.CurrencyID, err)
	}
	if p.Time, err = model.ParseTimestamp(rec.Time); err != nil {
		return nil, model.Malformed("price", rec.ID, "time", rec.Time, err)
	}
	if p.Value, err = fixedpoint.Parse(rec.Value); err != nil {
		return nil, model.Malformed("price", rec.ID, "value", rec.Value, err)
	}
	return p, nil
}

type pair struct {
	commodity, currency commodity.ID
}

// DB indexes prices by commodity and currency, oldest first.
type DB struct {
	byPair map[pair][]*Price
	count  int
}

// NewDB indexes prices.
func NewDB(prices []*Price) *DB {
	db := &DB{byPair: make(map[pair][]*Price)}
	for _, p := range prices {
		k := pair{p.Commodity, p.Currency}
		db.byPair[k] = append(db.byPair[k], p)
		db.count++
	}
	for _, list := range db.byPair {
		slices.SortStableFunc(list, func(a, b *Price) int { return a.Time.Compare(b.Time) })
	}
	return db
}

// Len returns the number of prices.
func (db *DB) Len() int { return db.count }

// History returns every quote of commodity in currency, oldest first.
func (db *DB) History(c, currency commodity.ID) []*Price {
	return append([]*Price(nil), db.byPair[pair{c, currency}]...)
}

// Latest returns the newest quote of commodity in currency at or before at.
func (db *DB) Latest(c, currency commodity.ID, at time.Time) (*Price, bool) {
	list := db.byPair[pair{c, currency}]
	i, _ := slices.BinarySearchFunc(list, at, func(p *Price, t time.Time) int {
		if p.Time.After(t) {
			return 1
		}
		return -1
	})
	if i == 0 {
		return nil, false
	}
	return list[i-1], true
}

// Convert values amount units of c in currency using the latest quote at or before at.
func (db *DB) Convert(amount fixedpoint.Number, c, currency commodity.ID, at time.Time) (fixedpoint.Number, error) {
	if c == currency {
		return amount, nil
	}
	p, ok := db.Latest(c, currency, at)
	if !ok {
		return fixedpoint.Zero, fmt.Errorf("no price for %s in %s at %s", c, currency, at.Format(time.DateOnly))
	}
	return amount.Mul(p.Value), nil
}
