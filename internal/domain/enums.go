package domain

import "strings"

type ProductLevel string

const (
	ProductPOC  ProductLevel = "POC"
	ProductMVP  ProductLevel = "MVP"
	ProductFull ProductLevel = "Full Product"
)

// ProductLevels lists product levels in display order.
var ProductLevels = []ProductLevel{ProductPOC, ProductMVP, ProductFull}

// ParseProductLevel accepts the display form or a loose spelling such as
// "full", "fullproduct" or "full_product".
func ParseProductLevel(s string) (ProductLevel, bool) {
	switch normalizeEnum(s) {
	case "poc":
		return ProductPOC, true
	case "mvp":
		return ProductMVP, true
	case "full", "fullproduct":
		return ProductFull, true
	}
	return "", false
}

type UILevel string

const (
	UISimple   UILevel = "Simple"
	UIPolished UILevel = "Polished"
)

// UILevels lists UI levels in display order.
var UILevels = []UILevel{UISimple, UIPolished}

func ParseUILevel(s string) (UILevel, bool) {
	switch normalizeEnum(s) {
	case "simple":
		return UISimple, true
	case "polished":
		return UIPolished, true
	}
	return "", false
}

type Platform string

const (
	PlatformWeb     Platform = "Web"
	PlatformIOS     Platform = "iOS"
	PlatformAndroid Platform = "Android"
	PlatformDesktop Platform = "Desktop"
)

// Platforms is the canonical platform order used for serialization.
var Platforms = []Platform{PlatformWeb, PlatformIOS, PlatformAndroid, PlatformDesktop}

func ParsePlatform(s string) (Platform, bool) {
	switch normalizeEnum(s) {
	case "web":
		return PlatformWeb, true
	case "ios":
		return PlatformIOS, true
	case "android":
		return PlatformAndroid, true
	case "desktop":
		return PlatformDesktop, true
	}
	return "", false
}

// TriState models a yes/no answer the model may leave unknown.
type TriState int

const (
	Unknown TriState = iota
	Yes
	No
)

func (t TriState) String() string {
	switch t {
	case Yes:
		return "yes"
	case No:
		return "no"
	default:
		return "unknown"
	}
}

type WarningKind string

const (
	WarnMissingKeys      WarningKind = "missing_keys"
	WarnTotalMismatch    WarningKind = "total_mismatch"
	WarnDuplicateFeature WarningKind = "duplicate_feature"
)

func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}
