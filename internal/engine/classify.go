package engine

import (
	"strings"

	"github.com/veridia/invoice-summary/internal/model"
)

// Some suppliers smuggle a document discount in as a negative-quantity
// pseudo-product instead of an AllowanceCharge. The names seen in the
// wild are variations of "discount" and its Romanian equivalent.
var discountMarkers = []string{"discount", "reducere"}

// isDiscountProxy reports whether a line is a disguised discount rather
// than a genuine product. Classification never consults the line's own
// discount fields; a proxy may carry them and they are ignored.
func isDiscountProxy(line model.Line) bool {
	if !line.Quantity.IsNegative() {
		return false
	}
	name := strings.ToLower(line.ItemName)
	for _, marker := range discountMarkers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

// classify partitions a document's computations into genuine product
// entries and discount proxies, preserving original order. Every input
// appears in exactly one of the two lists.
func classify(computations []*lineComputation) (products, proxies []*lineComputation) {
	for _, lc := range computations {
		if lc.isDiscountProxy {
			proxies = append(proxies, lc)
		} else {
			products = append(products, lc)
		}
	}
	return products, proxies
}
