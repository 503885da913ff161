// Package sql provides an advisory injection screen over caller-supplied
// query arguments.
package sql

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// InjectionCheckResult describes a suspicious argument. Arguments are bound
// as positional SQL parameters so a detected pattern cannot execute; the
// screen exists to surface probing attempts to operators.
type InjectionCheckResult struct {
	Position    int    // 0-based position of the argument in the resolved list
	Value       string // The argument that tripped the check
	Fingerprint string // libinjection fingerprint of the detected pattern
}

// CheckArguments screens a resolved argument list for SQL injection
// patterns. Returns one result per suspicious argument; an empty slice means
// all arguments look clean.
func CheckArguments(args []string) []InjectionCheckResult {
	var results []InjectionCheckResult
	for i, arg := range args {
		isSQLi, fingerprint := libinjection.IsSQLi(arg)
		if isSQLi {
			results = append(results, InjectionCheckResult{
				Position:    i,
				Value:       arg,
				Fingerprint: string(fingerprint),
			})
		}
	}
	return results
}
