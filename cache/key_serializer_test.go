package cache

import (
	"strings"
	"testing"
	"time"
)

func joinWithSeparator(parts ...string) string {
	return strings.Join(parts, KeySeparator)
}

func TestDefaultKeySerializer_BasicTypes(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	tests := []struct {
		name      string
		namespace string
		args      []any
		want      string
	}{
		{
			name:      "no args",
			namespace: "category_list",
			args:      []any{},
			want:      "category_list",
		},
		{
			name:      "single string",
			namespace: "product_detail",
			args:      []any{"42"},
			want:      joinWithSeparator("product_detail", "42"),
		},
		{
			name:      "multiple basic types",
			namespace: "product_list",
			args:      []any{1, "hello", true, 3.14},
			want:      joinWithSeparator("product_list", "1", "hello", "true", "3.14"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := serializer.SerializeKey(tt.namespace, tt.args...)
			if got != tt.want {
				t.Errorf("SerializeKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultKeySerializer_NilAndPointers(t *testing.T) {
	serializer := NewDefaultKeySerializer()
	id := "7"

	tests := []struct {
		name string
		arg  any
		want string
	}{
		{name: "nil interface", arg: nil, want: "nil"},
		{name: "nil pointer", arg: (*string)(nil), want: "nil"},
		{name: "pointer is followed", arg: &id, want: "7"},
		{name: "nil slice", arg: ([]int)(nil), want: "slice:nil"},
		{name: "nil map", arg: (map[string]int)(nil), want: "map:nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := serializer.SerializeKey("ns", tt.arg)
			if want := joinWithSeparator("ns", tt.want); got != want {
				t.Errorf("SerializeKey() = %v, want %v", got, want)
			}
		})
	}
}

func TestDefaultKeySerializer_Collections(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	tests := []struct {
		name string
		arg  any
		want string
	}{
		{name: "empty slice", arg: []int{}, want: "slice[0]:{}"},
		{name: "string slice", arg: []string{"alice", "bob"}, want: "slice[2]:{alice,bob}"},
		{name: "nested slice", arg: [][]int{{1, 2}, {3}}, want: "slice[2]:{slice[2]:{1,2},slice[1]:{3}}"},
		{name: "array", arg: [2]string{"a", "b"}, want: "array[2]:{a,b}"},
		{name: "map sorted by key", arg: map[string]int{"b": 2, "a": 1}, want: "map[2]:{a=1,b=2}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := serializer.SerializeKey("ns", tt.arg)
			if want := joinWithSeparator("ns", tt.want); got != want {
				t.Errorf("SerializeKey() = %v, want %v", got, want)
			}
		})
	}
}

type pageArgs struct {
	Page     int
	PageSize int
	Sort     string
	internal string
}

func TestDefaultKeySerializer_Structs(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	got := serializer.SerializeKey("product_list", pageArgs{Page: 2, PageSize: 5, Sort: "name", internal: "ignored"})
	want := joinWithSeparator("product_list", "struct:{Page:2,PageSize:5,Sort:name}")
	if got != want {
		t.Errorf("SerializeKey() = %v, want %v", got, want)
	}
}

func TestDefaultKeySerializer_Stringer(t *testing.T) {
	serializer := NewDefaultKeySerializer()
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	got := serializer.SerializeKey("ns", ts)
	if want := joinWithSeparator("ns", ts.String()); got != want {
		t.Errorf("SerializeKey() = %v, want %v", got, want)
	}
}

func TestDefaultKeySerializer_Deterministic(t *testing.T) {
	serializer := NewDefaultKeySerializer()
	args := []any{map[string]any{"z": 1, "a": []int{3, 2}}, pageArgs{Page: 1}}

	first := serializer.SerializeKey("ns", args...)
	for i := 0; i < 50; i++ {
		if got := serializer.SerializeKey("ns", args...); got != first {
			t.Fatalf("non deterministic key: %s vs %s", got, first)
		}
	}
}

func TestDefaultKeySerializer_DistinctTuplesDoNotCollide(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	a := serializer.SerializeKey("product_list", "category=1", pageArgs{Page: 1, PageSize: 5})
	b := serializer.SerializeKey("product_list", "category=1", pageArgs{Page: 1, PageSize: 6})
	c := serializer.SerializeKey("product_list", "category=10", pageArgs{Page: 1, PageSize: 5})

	if a == b || a == c || b == c {
		t.Errorf("expected distinct keys, got %q %q %q", a, b, c)
	}
}

func TestDefaultKeySerializer_SerializePrefix(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	prefix := serializer.SerializePrefix("product_list", "category=1")
	key := serializer.SerializeKey("product_list", "category=1", pageArgs{Page: 1})
	other := serializer.SerializeKey("product_list", "category=10", pageArgs{Page: 1})

	if !strings.HasPrefix(key, prefix) {
		t.Errorf("expected %q to start with %q", key, prefix)
	}
	if strings.HasPrefix(other, prefix) {
		t.Errorf("expected %q not to start with %q", other, prefix)
	}
}
