package domain

// Kind is the shape of an observed container. It is fixed when the node is built.
type Kind string

const (
	KindRecord   Kind = "record"   // map[string]any
	KindSequence Kind = "sequence" // []any
)

type undefined struct{}

func (undefined) String() string { return "undefined" }

// Undefined is the absence of a value. Writing it to a key deletes the key;
// sequence holes hold it. It is distinct from nil, which is a null value.
var Undefined any = undefined{}

// IsUndefined reports whether v is the Undefined sentinel.
func IsUndefined(v any) bool {
	_, ok := v.(undefined)
	return ok
}
