package enums

import "fmt"

// AssetType distinguishes assets that come back to inventory from consumables.
type AssetType string

const (
	AssetTypeReturnable    AssetType = "Returnable"
	AssetTypeNonReturnable AssetType = "Non-Returnable"
)

var validAssetTypes = []AssetType{
	AssetTypeReturnable,
	AssetTypeNonReturnable,
}

// String implements fmt.Stringer.
func (t AssetType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known AssetType.
func (t AssetType) IsValid() bool {
	for _, candidate := range validAssetTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseAssetType converts raw input into an AssetType.
func ParseAssetType(value string) (AssetType, error) {
	for _, candidate := range validAssetTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid asset type %q", value)
}
