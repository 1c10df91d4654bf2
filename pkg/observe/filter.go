package observe

import (
	"os"
	"strings"
)

// EnvDenyKeys names the environment variable holding extra comma-separated keys
// rejected by the default key filter.
const EnvDenyKeys = "DEEPWATCH_DENY_KEYS"

// KeyFilter reports whether a record key may be exposed by a view.
// Rejected keys are dropped from containers when they are adopted and writes to
// them are ignored: no state change, no event, no error.
type KeyFilter func(key string) bool

// prototypeKeys are the names found on a base object in JavaScript runtimes.
// Observed data is routinely mirrored to such clients, where these keys shadow
// built-in behaviour or enable prototype pollution.
var prototypeKeys = []string{
	"__proto__",
	"constructor",
	"prototype",
	"hasOwnProperty",
	"isPrototypeOf",
	"propertyIsEnumerable",
	"toLocaleString",
	"toString",
	"valueOf",
	"__defineGetter__",
	"__defineSetter__",
	"__lookupGetter__",
	"__lookupSetter__",
}

// DenyKeys returns a filter rejecting exactly the given keys.
func DenyKeys(keys ...string) KeyFilter {
	denied := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		denied[k] = struct{}{}
	}
	return func(key string) bool {
		_, bad := denied[key]
		return !bad
	}
}

// AllowAll admits every key.
func AllowAll(string) bool { return true }

// DefaultKeyFilter rejects prototype keys plus any key listed in EnvDenyKeys.
func DefaultKeyFilter() KeyFilter {
	keys := prototypeKeys
	if extra := os.Getenv(EnvDenyKeys); extra != "" {
		keys = append(keys[:len(keys):len(keys)], splitKeys(extra)...)
	}
	return DenyKeys(keys...)
}

func splitKeys(s string) []string {
	var out []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
