// Package pathenc maps resource identifiers and tool calls to canonical
// relative file paths. The generator uses it to decide where pre-rendered
// responses are written and the bridge uses it to resolve incoming calls;
// the two must agree byte-for-byte, so all rules live in this one package
// and nowhere else.
package pathenc

import (
	"encoding/base64"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Suffix is appended by callers when naming a stored artifact.
const Suffix = ".json"

// unsafe replaces characters that are not portable across filesystems.
var unsafe = strings.NewReplacer(
	"*", "_",
	"?", "_",
	`"`, "_",
	"<", "_",
	">", "_",
	"|", "_",
)

// hashSafe maps the base64 output of the many-argument rule onto the same
// filesystem-safe alphabet.
var hashSafe = strings.NewReplacer("/", "_", "+", "_", "=", "")

// Resource encodes a resource identifier as a relative path fragment.
// For "scheme://rest" forms only the rest is used; the unsafe character
// set is substituted with underscores either way. No suffix is appended.
func Resource(uri string) string {
	if parts := strings.Split(uri, "://"); len(parts) == 2 {
		return unsafe.Replace(parts[1])
	}
	return unsafe.Replace(uri)
}

// Call encodes an operation invocation as a path relative to the tool
// root. The shape depends on the argument count:
//
//	0    <op>.json                 (sibling of the operation directory)
//	1    <op>/<value>.json
//	2    <op>/<a>/<b>.json         (encoded values sorted ascending)
//	>=3  <op>/<hash>.json          (base64 of the canonical query string,
//	                                "/" and "+" mapped to "_", no padding)
//
// The two-argument sort makes the encoding independent of which argument
// the caller named first. The hash is never truncated.
func Call(op string, args map[string]any) string {
	switch len(args) {
	case 0:
		return op + Suffix
	case 1:
		var seg string
		for _, v := range args {
			seg = argSegment(v)
		}
		return op + "/" + seg + Suffix
	case 2:
		segs := make([]string, 0, 2)
		for _, v := range args {
			segs = append(segs, argSegment(v))
		}
		sort.Strings(segs)
		return op + "/" + segs[0] + "/" + segs[1] + Suffix
	default:
		names := make([]string, 0, len(args))
		for name := range args {
			names = append(names, name)
		}
		sort.Strings(names)
		pairs := make([]string, 0, len(names))
		for _, name := range names {
			pairs = append(pairs, name+"="+Stringify(args[name]))
		}
		enc := base64.StdEncoding.EncodeToString([]byte(strings.Join(pairs, "&")))
		return op + "/" + hashSafe.Replace(enc) + Suffix
	}
}

// argSegment stringifies a single- or two-argument value into a path
// segment. Identifier-like strings are stripped to their "://" tail first
// so a resource URI passed as an argument lands on the same fragment the
// resource itself encodes to.
func argSegment(v any) string {
	s := Stringify(v)
	if parts := strings.Split(s, "://"); len(parts) == 2 {
		s = parts[1]
	}
	return unsafe.Replace(s)
}

// Stringify renders an argument value in its canonical textual form:
// strings verbatim, booleans and integers via strconv, floats in their
// shortest round-trip form, and anything structured as compact JSON.
func Stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
