package sizing

import "strings"

// System identifies a shoe sizing system
type System string

const (
	SystemUK System = "UK"
	SystemUS System = "US"
	SystemEU System = "EU"
	SystemJP System = "JP"
)

// Gender identifies the sizing convention gender
// Providers disagree on which convention they label the same physical shoe
// with, so gender is required input to pick the right offset.
type Gender string

const (
	GenderMens    Gender = "MENS"
	GenderWomens  Gender = "WOMENS"
	GenderUnknown Gender = ""
)

// offScaleBrands use their own sizing grid rather than the standard offsets
// (mostly luxury houses). Values for these brands pass through unchanged and
// are flagged low confidence so callers can decide how to react.
var offScaleBrands = map[string]bool{
	"louis vuitton": true,
	"gucci":         true,
	"balenciaga":    true,
}

// ToCanonical converts a provider-specific size into the canonical UK size.
// Returns the converted value and a confidence flag: false means the caller
// got a pass-through or defaulted conversion it should not fully trust.
// Conversion rules are linear offsets keyed by (system, gender):
//   - US Men's -> UK: subtract 1
//   - US Women's -> UK: subtract 2
//   - EU -> UK: (EU - 33.5) / 1.5
//   - JP -> UK: (JP - 22) / 1.5
func ToCanonical(value float64, system System, gender Gender, brand, model string) (float64, bool) {
	if offScaleBrands[strings.ToLower(brand)] {
		return value, false
	}

	switch system {
	case SystemUK:
		return value, true

	case SystemUS:
		switch gender {
		case GenderMens:
			return value - 1, true
		case GenderWomens:
			return value - 2, true
		default:
			// Unknown gender: default to the Men's offset, flag low confidence
			return value - 1, false
		}

	case SystemEU:
		return (value - 33.5) / 1.5, true

	case SystemJP:
		return (value - 22) / 1.5, true

	default:
		// Unsupported system: pass through unchanged, caller decides
		return value, false
	}
}

// FromCanonical converts a canonical UK size back into a target system.
// The inverse of ToCanonical; the same confidence semantics apply.
func FromCanonical(canonical float64, system System, gender Gender) (float64, bool) {
	switch system {
	case SystemUK:
		return canonical, true

	case SystemUS:
		switch gender {
		case GenderMens:
			return canonical + 1, true
		case GenderWomens:
			return canonical + 2, true
		default:
			return canonical + 1, false
		}

	case SystemEU:
		return canonical*1.5 + 33.5, true

	case SystemJP:
		return canonical*1.5 + 22, true

	default:
		return canonical, false
	}
}
