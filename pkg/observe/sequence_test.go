package observe_test

import (
	"cmp"
	"reflect"
	"testing"

	"github.com/aretw0/deepwatch/pkg/domain"
	"github.com/aretw0/deepwatch/pkg/observe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceIndexWrites(t *testing.T) {
	obs, log := observeT(t, []any{})
	v := obs.View()

	require.NoError(t, v.Set(3, "x"))

	assert.Equal(t, []domain.Event{changed("x", 3)}, log.events)
	assert.Equal(t, 4, v.Len())
	assert.Equal(t, []any{3}, v.Keys())
	assert.False(t, v.Has(0))
	assert.Equal(t, []any{nil, nil, nil, "x"}, observe.ToPlain(v))

	log.reset()
	require.NoError(t, v.Set("1", "y"))
	require.NoError(t, v.Set("01", "ignored"))
	require.NoError(t, v.Set("name", "ignored"))
	assert.Equal(t, []domain.Event{changed("y", 1)}, log.events)

	log.reset()
	require.NoError(t, v.Delete(0))
	require.NoError(t, v.Delete(1))
	assert.Equal(t, []domain.Event{deleted(1)}, log.events)
	assert.Equal(t, 4, v.Len())
}

func TestSequenceLength(t *testing.T) {
	t.Run("grow leaves holes", func(t *testing.T) {
		obs, log := observeT(t, []any{"a"})
		v := obs.View()

		require.NoError(t, v.SetLen(3))

		assert.Equal(t, []domain.Event{changed(3, domain.LengthKey)}, log.events)
		assert.False(t, v.Has(1))
		got, _ := v.Get(domain.LengthKey)
		assert.Equal(t, 3, got)
	})

	t.Run("shrink tears down truncated children", func(t *testing.T) {
		obs, log := observeT(t, []any{"a", map[string]any{"x": 1}, []any{1}})
		v := obs.View()
		rec, seq := v.Index(1), v.Index(2)

		require.NoError(t, v.Set(domain.LengthKey, 1.0))

		assert.Equal(t, []domain.Event{changed(1, domain.LengthKey)}, log.events)
		assert.True(t, rec.Detached())
		assert.True(t, seq.Detached())
		assert.Equal(t, 1, obs.Size())
	})

	invalid := []struct {
		name  string
		value any
	}{
		{"negative", -1},
		{"fraction", 1.5},
		{"string", "2"},
		{"nil", nil},
	}
	for _, tt := range invalid {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			obs, log := observeT(t, []any{"a"})
			err := obs.View().Set(domain.LengthKey, tt.value)
			assert.ErrorIs(t, err, domain.ErrInvalidLength)
			assert.Empty(t, log.events)
			assert.Equal(t, 1, obs.View().Len())
		})
	}
}

func TestPushAndPop(t *testing.T) {
	obs, log := observeT(t, []any{"a"})
	v := obs.View()

	n, err := v.Push(map[string]any{"x": 1}, "c")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []domain.Event{
		changed(map[string]any{"x": 1}, 1),
		changed("c", 2),
	}, log.events)

	log.reset()
	got, err := v.Pop()
	require.NoError(t, err)
	assert.Equal(t, "c", got)

	elem := v.Index(1)
	got, err = v.Pop()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"x": 1}, got)
	assert.True(t, elem.Detached())

	assert.Equal(t, []domain.Event{
		changed(2, domain.LengthKey),
		changed(1, domain.LengthKey),
	}, log.events)

	_, err = v.Pop()
	require.NoError(t, err)
	got, err = v.Pop()
	require.NoError(t, err)
	assert.True(t, domain.IsUndefined(got))
}

func TestPushRejectsWholeBatch(t *testing.T) {
	obs, log := observeT(t, []any{})
	v := obs.View()
	shared := map[string]any{}

	_, err := v.Push("ok", shared, shared)

	assert.ErrorIs(t, err, domain.ErrCycle)
	assert.Equal(t, 0, v.Len())
	assert.Empty(t, log.events)
}

func TestShiftAndUnshift(t *testing.T) {
	obs, log := observeT(t, []any{"a", "b", "c"})
	v := obs.View()

	got, err := v.Shift()
	require.NoError(t, err)
	assert.Equal(t, "a", got)
	assert.Equal(t, []domain.Event{
		changed("b", 0),
		changed("c", 1),
		changed(2, domain.LengthKey),
	}, log.events)

	log.reset()
	n, err := v.Unshift("z")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []domain.Event{
		changed("z", 0),
		changed("b", 1),
		changed("c", 2),
	}, log.events)

	empty, _ := observeT(t, []any{})
	got, err = empty.View().Shift()
	require.NoError(t, err)
	assert.True(t, domain.IsUndefined(got))
}

func TestSplice(t *testing.T) {
	tests := []struct {
		name        string
		initial     []any
		start       int
		deleteCount int
		items       []any
		wantRemoved []any
		wantAfter   []any
	}{
		{"negative start", []any{"a", "b", "c"}, -1, 1, nil, []any{"c"}, []any{"a", "b"}},
		{"start past end", []any{"a"}, 5, 1, []any{"b"}, []any{}, []any{"a", "b"}},
		{"count past end", []any{"a", "b", "c"}, 1, 10, nil, []any{"b", "c"}, []any{"a"}},
		{"negative count", []any{"a", "b"}, 0, -3, []any{"z"}, []any{}, []any{"z", "a", "b"}},
		{"insert in middle", []any{"a", "c"}, 1, 0, []any{"b"}, []any{}, []any{"a", "b", "c"}},
		{"holes materialize as nil", []any{"a", domain.Undefined, "c"}, 0, 2, nil, []any{"a", nil}, []any{"c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs, _ := observeT(t, tt.initial)
			v := obs.View()

			removed, err := v.Splice(tt.start, tt.deleteCount, tt.items...)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRemoved, removed)
			assert.Equal(t, tt.wantAfter, observe.ToPlain(v))
		})
	}
}

func TestSpliceMaterializesRemoved(t *testing.T) {
	m := map[string]any{"k": []any{1, 2}}
	obs, _ := observeT(t, []any{m, "b"})
	v := obs.View()
	elem := v.Index(0)

	removed, err := v.Splice(0, 1)
	require.NoError(t, err)

	require.Len(t, removed, 1)
	assert.Equal(t, map[string]any{"k": []any{1, 2}}, removed[0])
	assert.NotEqual(t,
		reflect.ValueOf(m).UnsafePointer(),
		reflect.ValueOf(removed[0]).UnsafePointer())
	assert.True(t, elem.Detached())
	assert.Equal(t, []any{"b"}, observe.ToPlain(v))
	assert.Equal(t, 1, obs.Size())
}

func TestSpliceKeepsMovedViews(t *testing.T) {
	obs, log := observeT(t, []any{"a", map[string]any{"n": 1}, map[string]any{"n": 2}})
	v := obs.View()
	one, two := v.Index(1), v.Index(2)

	_, err := v.Splice(0, 1)
	require.NoError(t, err)

	assert.False(t, one.Detached())
	assert.False(t, two.Detached())
	assert.Same(t, one, v.Index(0))
	assert.Same(t, two, v.Index(1))
	assert.Equal(t, domain.Path{0}, one.Path())
	assert.Equal(t, domain.Path{1}, two.Path())

	require.NoError(t, one.Set("n", 10))
	assert.Equal(t, changed(10, 0, "n"), log.events[len(log.events)-1])
}

func TestSpliceRejectsDuplicateView(t *testing.T) {
	obs, log := observeT(t, []any{map[string]any{}})
	v := obs.View()
	elem := v.Index(0)

	_, err := v.Splice(1, 0, elem)

	assert.ErrorIs(t, err, domain.ErrCycle)
	assert.Equal(t, 1, v.Len())
	assert.Same(t, elem, v.Index(0))
	assert.Empty(t, log.events)
}

func TestSortFunc(t *testing.T) {
	obs, log := observeT(t, []any{3, 1, 2})
	v := obs.View()

	require.NoError(t, v.SortFunc(func(a, b any) int { return cmp.Compare(a.(int), b.(int)) }))

	assert.Equal(t, []any{1, 2, 3}, observe.ToPlain(v))
	assert.Equal(t, []domain.Event{
		changed(1, 0),
		changed(2, 1),
		changed(3, 2),
	}, log.events)
}

func TestSortFuncHolesLast(t *testing.T) {
	obs, log := observeT(t, []any{"b", domain.Undefined, "a"})
	v := obs.View()

	require.NoError(t, v.SortFunc(func(a, b any) int { return cmp.Compare(a.(string), b.(string)) }))

	assert.Equal(t, []any{"a", "b", nil}, observe.ToPlain(v))
	assert.Equal(t, []any{0, 1}, v.Keys())
	assert.Equal(t, []domain.Event{
		changed("a", 0),
		changed("b", 1),
		deleted(2),
	}, log.events)
}

func TestSortFuncKeepsViews(t *testing.T) {
	obs, _ := observeT(t, []any{
		map[string]any{"rank": 2},
		map[string]any{"rank": 1},
	})
	v := obs.View()
	second := v.Index(0)

	byRank := func(a, b any) int {
		ra, _ := a.(*observe.View).Get("rank")
		rb, _ := b.(*observe.View).Get("rank")
		return cmp.Compare(ra.(int), rb.(int))
	}
	require.NoError(t, v.SortFunc(byRank))

	assert.Same(t, second, v.Index(1))
	assert.Equal(t, domain.Path{1}, second.Path())
	assert.Equal(t, 3, obs.Size())
}

func TestReverse(t *testing.T) {
	obs, log := observeT(t, []any{"a", "b", "c"})
	v := obs.View()

	require.NoError(t, v.Reverse())

	assert.Equal(t, []any{"c", "b", "a"}, observe.ToPlain(v))
	assert.Equal(t, []domain.Event{changed("c", 0), changed("a", 2)}, log.events)
}

func TestSequenceOperationsOnRecord(t *testing.T) {
	obs, _ := observeT(t, map[string]any{})
	v := obs.View()

	_, err := v.Push(1)
	assert.ErrorIs(t, err, domain.ErrNotSequence)
	_, err = v.Splice(0, 1)
	assert.ErrorIs(t, err, domain.ErrNotSequence)
	assert.ErrorIs(t, v.SetLen(0), domain.ErrNotSequence)
	assert.ErrorIs(t, v.Reverse(), domain.ErrNotSequence)
}

func TestInsert(t *testing.T) {
	obs, log := observeT(t, []any{"a", "c"})
	v := obs.View()

	n, err := v.Insert(1, "b")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []any{"a", "b", "c"}, observe.ToPlain(v))
	assert.Equal(t, []domain.Event{
		changed("b", 1),
		changed("c", 2),
	}, log.events)
}

func TestPushUndefinedLeavesHole(t *testing.T) {
	obs, log := observeT(t, []any{"a"})
	v := obs.View()

	n, err := v.Push(domain.Undefined, "b")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.False(t, v.Has(1))
	assert.Equal(t, []any{"a", nil, "b"}, observe.ToPlain(v))
	assert.Equal(t, []domain.Event{changed("b", 2)}, log.events)

	log.reset()
	n, err = v.Push("c", domain.Undefined)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []domain.Event{
		changed("c", 3),
		changed(5, domain.LengthKey),
	}, log.events)
}

func TestSequenceBounds(t *testing.T) {
	tests := []struct {
		name  string
		write func(v *observe.View) error
		want  error
	}{
		{"index at max length", func(v *observe.View) error { return v.Set(observe.MaxLength, "x") }, domain.ErrIndexOutOfRange},
		{"string index", func(v *observe.View) error { return v.Set("3000000000", "x") }, domain.ErrIndexOutOfRange},
		{"string index beyond int", func(v *observe.View) error { return v.Set("99999999999999999999", "x") }, domain.ErrIndexOutOfRange},
		{"int64 index", func(v *observe.View) error { return v.Set(int64(1)<<40, "x") }, domain.ErrIndexOutOfRange},
		{"length above max", func(v *observe.View) error { return v.SetLen(observe.MaxLength + 1) }, domain.ErrInvalidLength},
		{"length key", func(v *observe.View) error { return v.Set(domain.LengthKey, int64(1)<<40) }, domain.ErrInvalidLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs, log := observeT(t, []any{"a"})
			v := obs.View()

			assert.ErrorIs(t, tt.write(v), tt.want)
			assert.Equal(t, 1, v.Len())
			assert.Empty(t, log.events)
		})
	}

	t.Run("silent write at path", func(t *testing.T) {
		obs, _ := observeT(t, map[string]any{"list": []any{}})
		err := obs.SetValue(domain.Path{"list", int64(3_000_000_000)}, "x", false)
		assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)
		assert.Equal(t, 0, obs.View().Field("list").Len())
	})
}
