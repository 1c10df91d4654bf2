package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/deepwatch/pkg/domain"
	"github.com/aretw0/deepwatch/pkg/observe"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Op is one mutation of a script.
//
//	- op: set
//	  path: editor.tabSize
//	  value: 4
//	- op: splice
//	  path: plugins
//	  start: 1
//	  deleteCount: 1
//	  values: [lint]
type Op struct {
	Op          string `mapstructure:"op"`
	Path        string `mapstructure:"path"`
	Value       any    `mapstructure:"value"`
	Values      []any  `mapstructure:"values"`
	Start       int    `mapstructure:"start"`
	DeleteCount *int   `mapstructure:"deleteCount"`
}

// LoadScript reads a YAML list of operations.
func LoadScript(path string) ([]Op, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return parseScript(data)
}

func parseScript(data []byte) ([]Op, error) {
	var raw []any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}

	ops := make([]Op, 0, len(raw))
	for i, entry := range raw {
		var op Op
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:      &op,
			ErrorUnused: true,
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(normalize(entry)); err != nil {
			return nil, fmt.Errorf("script entry %d: %w", i+1, err)
		}
		if op.Op == "" {
			return nil, fmt.Errorf("script entry %d: missing op", i+1)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// RunScript applies ops in order and stops at the first failure.
func RunScript(ctx context.Context, obs *observe.Observer, ops []Op) error {
	for i, op := range ops {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := applyOp(obs, op); err != nil {
			return fmt.Errorf("op %d (%s %s): %w", i+1, op.Op, op.Path, err)
		}
	}
	return nil
}

func applyOp(obs *observe.Observer, op Op) error {
	path, err := domain.ParsePath(op.Path)
	if err != nil {
		return err
	}

	switch op.Op {
	case "set":
		return obs.SetValue(path, normalize(op.Value), true)
	case "silent":
		return obs.SetValue(path, normalize(op.Value), false)
	case "delete":
		return obs.SetValue(path, domain.Undefined, true)
	}

	v, err := sequenceAt(obs, path)
	if err != nil {
		return err
	}
	switch op.Op {
	case "push":
		_, err = v.Push(normalizeAll(op.Values)...)
	case "unshift":
		_, err = v.Unshift(normalizeAll(op.Values)...)
	case "pop":
		_, err = v.Pop()
	case "shift":
		_, err = v.Shift()
	case "reverse":
		err = v.Reverse()
	case "length":
		err = v.Set(domain.LengthKey, op.Value)
	case "splice":
		deleteCount := v.Len()
		if op.DeleteCount != nil {
			deleteCount = *op.DeleteCount
		}
		_, err = v.Splice(op.Start, deleteCount, normalizeAll(op.Values)...)
	default:
		err = fmt.Errorf("unknown op %q", op.Op)
	}
	return err
}

func sequenceAt(obs *observe.Observer, path domain.Path) (*observe.View, error) {
	val, err := obs.View().Lookup(path...)
	if err != nil {
		return nil, err
	}
	v, ok := val.(*observe.View)
	if !ok {
		return nil, &domain.InvalidPathError{Path: path, Reason: "not an observed container"}
	}
	if v.Kind() != domain.KindSequence {
		return nil, domain.ErrNotSequence
	}
	return v, nil
}

func normalizeAll(values []any) []any {
	for i, v := range values {
		values[i] = normalize(v)
	}
	return values
}
