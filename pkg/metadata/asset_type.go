package metadata

import (
	"fmt"
	"strings"
)

type AssetType string

const (
	AssetTypeLaptop     AssetType = "Laptop"
	AssetTypeMonitor    AssetType = "Monitor"
	AssetTypeLicense    AssetType = "License"
	AssetTypePeripheral AssetType = "Peripheral"
	AssetTypeOther      AssetType = "Other"
)

func (t AssetType) IsValid() bool {
	switch t {
	case AssetTypeLaptop, AssetTypeMonitor, AssetTypeLicense, AssetTypePeripheral, AssetTypeOther:
		return true
	default:
		return false
	}
}

// NewAssetType accepts any casing and surrounding whitespace, "laptop" and " LAPTOP " both map to Laptop.
func NewAssetType(value string) (AssetType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, t := range []AssetType{AssetTypeLaptop, AssetTypeMonitor, AssetTypeLicense, AssetTypePeripheral, AssetTypeOther} {
		if strings.ToLower(string(t)) == normalized {
			return t, nil
		}
	}

	return "", fmt.Errorf(
		"value not valid, only valid values are: %s, %s, %s, %s, %s",
		AssetTypeLaptop, AssetTypeMonitor, AssetTypeLicense, AssetTypePeripheral, AssetTypeOther,
	)
}

func (t AssetType) String() string {
	return string(t)
}
