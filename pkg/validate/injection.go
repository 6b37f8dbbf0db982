package validate

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// InjectionCheckResult describes a suspected SQL injection pattern found in
// a filter value.
type InjectionCheckResult struct {
	IsSQLi      bool
	Fingerprint string
	Field       string
}

// CheckValueForInjection runs libinjection over a filter value. Only string
// values (and string elements of collections) are checked; numbers,
// booleans, and nulls cannot carry injection patterns.
//
// Every value is ultimately bound as a query parameter, so this is
// defense-in-depth: a hit fails validation before any plan is built.
func CheckValueForInjection(field string, value any) *InjectionCheckResult {
	switch v := value.(type) {
	case string:
		if isSQLi, fingerprint := libinjection.IsSQLi(v); isSQLi {
			return &InjectionCheckResult{
				IsSQLi:      true,
				Fingerprint: string(fingerprint),
				Field:       field,
			}
		}
	case []any:
		for _, elem := range v {
			if result := CheckValueForInjection(field, elem); result != nil {
				return result
			}
		}
	}
	return nil
}
