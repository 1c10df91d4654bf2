package observe

import (
	"fmt"

	"github.com/aretw0/deepwatch/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// ToPlain deep-materializes an observed view into inert map[string]any / []any
// data with no observation attached. Sequence holes become nil. Values that are
// not views, including unobserved containers, are returned unchanged. A detached
// view materializes to nil.
func ToPlain(v any) any {
	view, ok := v.(*View)
	if !ok {
		return v
	}
	if !view.live() {
		return nil
	}
	n := view.n
	switch n.kind {
	case domain.KindRecord:
		out := make(map[string]any, len(n.rec))
		for k, e := range n.rec {
			out[k] = ToPlain(e)
		}
		return out
	case domain.KindSequence:
		out := make([]any, len(n.seq))
		for i, e := range n.seq {
			if domain.IsUndefined(e) {
				continue
			}
			out[i] = ToPlain(e)
		}
		return out
	}
	return nil
}

// Decode materializes v and decodes the result into out, which must be a pointer.
// Struct fields are matched by their `mapstructure` tag or, failing that, their
// name (case-insensitive).
func Decode(v any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := dec.Decode(ToPlain(v)); err != nil {
		return fmt.Errorf("failed to decode observed value: %w", err)
	}
	return nil
}

func sprintPlain(v any) string {
	return fmt.Sprint(v)
}
