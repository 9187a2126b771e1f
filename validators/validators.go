package validators

import (
	// Go Internal Packages
	"regexp"
	"strings"
)

const maxBillRefLen = 50

var billRefPattern = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)

// AllowedRefTypes is the fixed set of reference types the gateway accepts.
var AllowedRefTypes = []string{"MSISDN", "ACCOUNT", "INVOICE", "POLICY", "METER", "OTHER"}

// ValidateBillRef checks the syntactic well-formedness of a bill reference.
// A passing reference is not guaranteed to exist; existence is the customer
// directory's call. The returned detail strings are part of the gateway
// reply contract and must not change.
func ValidateBillRef(billRef string) (bool, string) {
	if billRef == "" {
		return false, "Bill reference number cannot be empty"
	}
	if len(billRef) > maxBillRefLen {
		return false, "Bill reference number is too long"
	}
	if !billRefPattern.MatchString(billRef) {
		return false, "Bill reference number contains invalid characters"
	}
	return true, ""
}

// ValidateRefType checks a reference type against the allowed set,
// case-insensitively.
func ValidateRefType(refType string) (bool, string) {
	if refType == "" {
		return false, "Reference type cannot be empty"
	}
	upper := strings.ToUpper(refType)
	for _, allowed := range AllowedRefTypes {
		if upper == allowed {
			return true, ""
		}
	}
	return false, "Reference type must be one of: " + strings.Join(AllowedRefTypes, ", ")
}

// InferRefType resolves a reference type from the bill reference's prefix
// using the configured prefix table, preferring the longest matching prefix.
// When nothing matches it falls back to fallback (ACCOUNT by default config).
func InferRefType(billRef string, prefixes map[string]string, fallback string) string {
	best := ""
	for prefix := range prefixes {
		if strings.HasPrefix(billRef, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	if best == "" {
		return fallback
	}
	return prefixes[best]
}
