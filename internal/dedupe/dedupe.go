// Package dedupe collapses repeated inventory items within one document.
package dedupe

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/quotient/constants"
	"github.com/joseph-ayodele/quotient/internal/entity"
)

// Key identifies an item for exact deduplication: the part number when
// present, otherwise name and vendor.
func Key(it entity.InventoryItem) string {
	if pn := strings.ToLower(strings.TrimSpace(it.PartNumber)); pn != "" {
		return pn
	}
	return strings.ToLower(it.Name) + "_" + strings.ToLower(it.VendorName)
}

// Deduplicate keeps the first item for each Key, preserving order.
func Deduplicate(items []entity.InventoryItem) []entity.InventoryItem {
	seen := make(map[string]struct{}, len(items))
	out := make([]entity.InventoryItem, 0, len(items))
	for _, it := range items {
		k := Key(it)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}

// Similar reports whether two items likely describe the same product.
func Similar(a, b entity.InventoryItem) bool {
	if a.PartNumber != "" && b.PartNumber != "" && strings.EqualFold(a.PartNumber, b.PartNumber) {
		return true
	}

	na, nb := strings.ToLower(a.Name), strings.ToLower(b.Name)
	if na != "" && nb != "" && (strings.Contains(na, nb) || strings.Contains(nb, na)) {
		return true
	}

	if a.VendorName == "" || !strings.EqualFold(a.VendorName, b.VendorName) {
		return false
	}
	return sharedTokens(na, nb) >= 2
}

func sharedTokens(a, b string) int {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(a) {
		set[w] = struct{}{}
	}
	n := 0
	for _, w := range strings.Fields(b) {
		if _, ok := set[w]; ok {
			n++
			delete(set, w)
		}
	}
	return n
}

// Groups partitions items into the connected components of the Similar
// relation. Groups are ordered by their earliest member and members keep
// input order, so the result does not depend on which pair is seen first.
func Groups(items []entity.InventoryItem) [][]entity.InventoryItem {
	uf := newUnionFind(len(items))
	for i := range items {
		for j := i + 1; j < len(items); j++ {
			if Similar(items[i], items[j]) {
				uf.union(i, j)
			}
		}
	}

	index := make(map[int]int)
	var groups [][]entity.InventoryItem
	for i, it := range items {
		root := uf.find(i)
		g, ok := index[root]
		if !ok {
			g = len(groups)
			index[root] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], it)
	}
	return groups
}

// MergeSimilar replaces every group of similar items with one merged item.
func MergeSimilar(items []entity.InventoryItem) []entity.InventoryItem {
	groups := Groups(items)
	out := make([]entity.InventoryItem, 0, len(groups))
	for _, g := range groups {
		out = append(out, MergeGroup(g))
	}
	return out
}

// MergeGroup folds a group into its first item: quantities add up, the unit
// price is the mean of the known prices and descriptions are joined.
func MergeGroup(group []entity.InventoryItem) entity.InventoryItem {
	if len(group) == 0 {
		return entity.InventoryItem{}
	}
	merged := group[0]
	if len(group) == 1 {
		return merged
	}

	qty := 0
	sum, priced := decimal.Zero, 0
	var descs []string
	for _, it := range group {
		qty += it.Quantity
		if it.UnitPrice > 0 {
			sum = sum.Add(decimal.NewFromFloat(it.UnitPrice))
			priced++
		}
		if d := strings.TrimSpace(it.Description); d != "" {
			descs = append(descs, d)
		}
	}

	price := decimal.Zero
	if priced > 0 {
		price = sum.Div(decimal.NewFromInt(int64(priced)))
	}

	merged.Quantity = qty
	merged.UnitPrice = price.InexactFloat64()
	merged.TotalPrice = price.Mul(decimal.NewFromInt(int64(qty))).InexactFloat64()
	merged.Description = strings.Join(descs, "; ")
	merged.SKU = merged.PartNumber
	merged.Status = constants.ItemStatusIncomplete
	if merged.IsComplete() {
		merged.Status = constants.ItemStatusComplete
	}
	return merged
}
