package sql

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// InjectionCheckResult describes a filter value that matched a SQL injection pattern.
type InjectionCheckResult struct {
	IsSQLi      bool   // True if SQL injection pattern detected
	Fingerprint string // libinjection fingerprint of the detected pattern
	ParamName   string
	ParamValue  any
}

// CheckParameterForInjection runs libinjection over a string value. Values
// are always bound, so a match is not exploitable; it is reported so probing
// shows up in the security log. Non-string values return nil.
func CheckParameterForInjection(paramName string, value any) *InjectionCheckResult {
	strValue, ok := value.(string)
	if !ok {
		return nil
	}

	isSQLi, fingerprint := libinjection.IsSQLi(strValue)
	if isSQLi {
		return &InjectionCheckResult{
			IsSQLi:      true,
			Fingerprint: string(fingerprint),
			ParamName:   paramName,
			ParamValue:  value,
		}
	}

	return nil
}

// CheckFilters checks every bound filter of a built statement, in order.
func CheckFilters(filters []Filter) []*InjectionCheckResult {
	var results []*InjectionCheckResult
	for _, f := range filters {
		if result := CheckParameterForInjection(f.Predicate, f.Value); result != nil {
			results = append(results, result)
		}
	}
	return results
}
