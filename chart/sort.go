// Package chart orders spend records and turns them into bar and pie charts.
package chart

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/zalepa/benito/parser"
)

// Order selects how the displayed records are arranged.
type Order string

const (
	OrderOriginal Order = "original"
	OrderAmount   Order = "amount"
	OrderAds      Order = "ads"
)

var ErrUnknownOrder = errors.New("unknown sort order")

// Orders lists the accepted orders.
var Orders = []Order{OrderOriginal, OrderAmount, OrderAds}

// ParseOrder resolves a user-supplied order. An empty string means the
// source order.
func ParseOrder(s string) (Order, error) {
	switch o := Order(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return OrderOriginal, nil
	case OrderOriginal, OrderAmount, OrderAds:
		return o, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownOrder, s)
}

// Apply returns records arranged by o. The input slice is never modified.
func (o Order) Apply(records []parser.SpendRecord) []parser.SpendRecord {
	switch o {
	case OrderAmount:
		return SortByAmount(records)
	case OrderAds:
		return SortByAdCount(records)
	}
	return slices.Clone(records)
}

// SortByAmount returns a copy of records ordered by amount spent, highest
// first. Ties keep their input order.
func SortByAmount(records []parser.SpendRecord) []parser.SpendRecord {
	return sortedDesc(records, func(r parser.SpendRecord) int64 { return r.AmountSpentMXN })
}

// SortByAdCount returns a copy of records ordered by number of ads, highest
// first. Ties keep their input order.
func SortByAdCount(records []parser.SpendRecord) []parser.SpendRecord {
	return sortedDesc(records, func(r parser.SpendRecord) int64 { return int64(r.NumberOfAds) })
}

func sortedDesc(records []parser.SpendRecord, key func(parser.SpendRecord) int64) []parser.SpendRecord {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b parser.SpendRecord) int {
		return cmp.Compare(key(b), key(a))
	})
	return out
}

// View holds the records as loaded and the sequence currently shown. Sorting
// replaces Displayed wholesale and leaves Original untouched.
type View struct {
	Original  []parser.SpendRecord
	Displayed []parser.SpendRecord
	Order     Order
}

// NewView shows records in source order.
func NewView(records []parser.SpendRecord) View {
	return View{Original: records, Displayed: records, Order: OrderOriginal}
}

// Sorted returns a view whose displayed sequence is the current one
// rearranged by o. OrderOriginal restores the source order.
func (v View) Sorted(o Order) View {
	if o == OrderOriginal {
		v.Displayed = slices.Clone(v.Original)
	} else {
		v.Displayed = o.Apply(v.Displayed)
	}
	v.Order = o
	return v
}
