package enums

import "fmt"

// VendorCategory classifies the event service a vendor provides.
type VendorCategory string

const (
	VendorCategoryCatering   VendorCategory = "CATERING"
	VendorCategoryFlorist    VendorCategory = "FLORIST"
	VendorCategoryDecoration VendorCategory = "DECORATION"
	VendorCategoryLighting   VendorCategory = "LIGHTING"
)

var validVendorCategories = []VendorCategory{
	VendorCategoryCatering,
	VendorCategoryFlorist,
	VendorCategoryDecoration,
	VendorCategoryLighting,
}

// String implements fmt.Stringer.
func (v VendorCategory) String() string {
	return string(v)
}

// IsValid reports whether the value is a known VendorCategory.
func (v VendorCategory) IsValid() bool {
	for _, candidate := range validVendorCategories {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseVendorCategory converts raw input into a VendorCategory.
func ParseVendorCategory(value string) (VendorCategory, error) {
	for _, candidate := range validVendorCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid vendor category %q", value)
}
