package enums

import (
	"fmt"
	"strings"
)

type PurchaseSKU string

const (
	PurchaseSKUInkPack10  PurchaseSKU = "ink_pack_10"
	PurchaseSKUInkPack50  PurchaseSKU = "ink_pack_50"
	PurchaseSKUInkPack200 PurchaseSKU = "ink_pack_200"
)

func ParsePurchaseSKU(raw string) (PurchaseSKU, error) {
	switch PurchaseSKU(strings.ToLower(strings.TrimSpace(raw))) {
	case PurchaseSKUInkPack10:
		return PurchaseSKUInkPack10, nil
	case PurchaseSKUInkPack50:
		return PurchaseSKUInkPack50, nil
	case PurchaseSKUInkPack200:
		return PurchaseSKUInkPack200, nil
	default:
		return "", fmt.Errorf("unknown purchase sku %q", raw)
	}
}

// InkAmount returns the number of Ink units a pack credits, or 0 for an
// unknown SKU.
func (s PurchaseSKU) InkAmount() int {
	switch s {
	case PurchaseSKUInkPack10:
		return 10
	case PurchaseSKUInkPack50:
		return 50
	case PurchaseSKUInkPack200:
		return 200
	default:
		return 0
	}
}
