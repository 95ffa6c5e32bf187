package model

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ChestOrder compares chest numbers so that embedded digits sort by value:
// "9" comes before "10" and "A2" before "A10".
//
// A ChestOrder is not safe for concurrent use; create one per sort.
type ChestOrder struct {
	c *collate.Collator
}

// NewChestOrder returns a numeric-aware comparator.
func NewChestOrder() *ChestOrder {
	return &ChestOrder{c: collate.New(language.Und, collate.Numeric)}
}

// Compare returns -1, 0 or 1. Strings the collator considers equal (such as
// "07" and "7") fall back to byte order so the result stays total.
func (o *ChestOrder) Compare(a, b string) int {
	if r := o.c.CompareString(a, b); r != 0 {
		return r
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// SortChestNumbers sorts chest numbers in place using a fresh ChestOrder.
func SortChestNumbers(chests []string) {
	o := NewChestOrder()
	sort.SliceStable(chests, func(i, j int) bool { return o.Compare(chests[i], chests[j]) < 0 })
}
