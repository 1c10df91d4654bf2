package domain

import (
	"slices"
	"strconv"
	"strings"
)

// LengthKey is the pseudo-property addressing the length of a sequence.
const LengthKey = "length"

// Path locates a value from the root of an observed tree.
// Elements are string (record keys and LengthKey) or int (sequence indices).
// The root has an empty path.
type Path []any

// Append returns a new path with key appended. The receiver is never modified.
func (p Path) Append(key any) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, key)
}

// Parent returns the path without its last element.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return slices.Clone(p[:len(p)-1])
}

// Last returns the final element of the path, or nil for the root.
func (p Path) Last() any {
	if len(p) == 0 {
		return nil
	}
	return p[len(p)-1]
}

// Equal reports whether both paths name the same location.
func (p Path) Equal(other Path) bool {
	return slices.Equal(p, other)
}

// HasPrefix reports whether prefix is an ancestor of (or equal to) p.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	return slices.Equal(p[:len(prefix)], prefix)
}

// String renders the path as `a.b[0].c`. The root renders as `$`.
func (p Path) String() string {
	if len(p) == 0 {
		return "$"
	}
	var b strings.Builder
	for i, seg := range p {
		switch s := seg.(type) {
		case int:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s))
			b.WriteByte(']')
		case string:
			if i > 0 {
				b.WriteByte('.')
			}
			if needsQuote(s) {
				b.WriteString(strconv.Quote(s))
			} else {
				b.WriteString(s)
			}
		default:
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString("?")
		}
	}
	return b.String()
}

func needsQuote(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		switch r {
		case '.', '[', ']', '"', ' ', '\t', '\n':
			return true
		}
	}
	return false
}

// ParsePath parses the dotted form produced by Path.String.
// Bracketed integers become int elements, everything else a string.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "$" {
		return Path{}, nil
	}
	s = strings.TrimPrefix(s, "$.")
	var out Path
	for i := 0; i < len(s); {
		switch c := s[i]; {
		case c == '.':
			i++
		case c == '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return nil, &InvalidPathError{Path: out, Reason: "unterminated index"}
			}
			idx, err := strconv.Atoi(s[i+1 : i+end])
			if err != nil || idx < 0 {
				return nil, &InvalidPathError{Path: out, Reason: "bad index " + strconv.Quote(s[i+1:i+end])}
			}
			out = append(out, idx)
			i += end + 1
		case c == '"':
			rest := s[i:]
			quoted, err := strconv.QuotedPrefix(rest)
			if err != nil {
				return nil, &InvalidPathError{Path: out, Reason: "bad quoted key"}
			}
			key, _ := strconv.Unquote(quoted)
			out = append(out, key)
			i += len(quoted)
		default:
			end := strings.IndexAny(s[i:], ".[")
			if end < 0 {
				end = len(s) - i
			}
			out = append(out, s[i:i+end])
			i += end
		}
	}
	return out, nil
}
