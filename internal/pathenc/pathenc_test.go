package pathenc

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestResource_StripsScheme(t *testing.T) {
	if got := Resource("docs://guide/intro"); got != "guide/intro" {
		t.Errorf("got %q, want guide/intro", got)
	}
}

func TestResource_BarePath(t *testing.T) {
	if got := Resource("guide/intro"); got != "guide/intro" {
		t.Errorf("got %q, want guide/intro", got)
	}
}

func TestResource_SchemeAndBareAgree(t *testing.T) {
	if Resource("docs://a/b") != Resource("a/b") {
		t.Error("scheme and bare forms must encode to the same fragment")
	}
}

func TestResource_SubstitutionComplete(t *testing.T) {
	got := Resource(`a*b?c"d<e>f|g`)
	if got != "a_b_c_d_e_f_g" {
		t.Errorf("got %q, want a_b_c_d_e_f_g", got)
	}
	// No other character is altered.
	if Resource("a-b.c d/e") != "a-b.c d/e" {
		t.Error("safe characters must pass through unchanged")
	}
}

func TestResource_DoubleSchemeUntouched(t *testing.T) {
	// Splitting "a://b://c" yields three parts, so no stripping happens.
	if got := Resource("a://b://c"); got != "a://b://c" {
		t.Errorf("got %q, want full identifier substituted", got)
	}
}

func TestCall_ZeroArgs(t *testing.T) {
	if got := Call("list_resources", nil); got != "list_resources.json" {
		t.Errorf("got %q, want list_resources.json", got)
	}
	if got := Call("list_resources", map[string]any{}); got != "list_resources.json" {
		t.Errorf("got %q, want list_resources.json", got)
	}
}

func TestCall_OneArgURI(t *testing.T) {
	got := Call("get_resource", map[string]any{"uri": "docs://x/y"})
	if got != "get_resource/x/y.json" {
		t.Errorf("got %q, want get_resource/x/y.json", got)
	}
}

func TestCall_OneArgScalars(t *testing.T) {
	if got := Call("op", map[string]any{"n": 3}); got != "op/3.json" {
		t.Errorf("int: got %q", got)
	}
	if got := Call("op", map[string]any{"n": float64(3)}); got != "op/3.json" {
		t.Errorf("float: got %q", got)
	}
	if got := Call("op", map[string]any{"b": true}); got != "op/true.json" {
		t.Errorf("bool: got %q", got)
	}
}

func TestCall_TwoArgsSorted(t *testing.T) {
	a := Call("query", map[string]any{"type": "docs", "tag": "x"})
	b := Call("query", map[string]any{"type": "x", "tag": "docs"})
	if a != b {
		t.Errorf("two-arg encoding must be order independent: %q vs %q", a, b)
	}
	if a != "query/docs/x.json" {
		t.Errorf("got %q, want query/docs/x.json", a)
	}
}

func TestCall_ManyArgsStable(t *testing.T) {
	args := map[string]any{"uri": "docs://x", "heading": "Intro", "format": "plain"}
	first := Call("get_excerpt", args)
	for i := 0; i < 10; i++ {
		if got := Call("get_excerpt", args); got != first {
			t.Fatalf("unstable encoding: %q vs %q", got, first)
		}
	}

	seg := strings.TrimSuffix(strings.TrimPrefix(first, "get_excerpt/"), ".json")
	if strings.ContainsAny(seg, "/+=") {
		t.Errorf("segment %q contains unsafe base64 characters", seg)
	}

	// The segment is the full, untruncated encoding of the canonical
	// query string with names sorted and "/"/"+" mapped to "_".
	canonical := "format=plain&heading=Intro&uri=docs://x"
	want := base64.StdEncoding.EncodeToString([]byte(canonical))
	want = strings.NewReplacer("/", "_", "+", "_", "=", "").Replace(want)
	if seg != want {
		t.Errorf("segment = %q, want %q", seg, want)
	}
}

func TestCall_StructuredValue(t *testing.T) {
	got := Call("op", map[string]any{"filter": map[string]any{"a": 1, "b": 2}})
	want := `op/{"a":1,"b":2}.json`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCall_Idempotent(t *testing.T) {
	args := map[string]any{"uri": "docs://a/b"}
	if Call("get_resource", args) != Call("get_resource", args) {
		t.Error("identical inputs must encode identically")
	}
	if Resource("docs://a/b") != Resource("docs://a/b") {
		t.Error("identical inputs must encode identically")
	}
}

func TestStringify(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"plain", "plain"},
		{true, "true"},
		{false, "false"},
		{42, "42"},
		{int64(42), "42"},
		{float64(42), "42"},
		{0.5, "0.5"},
		{[]any{"a", 1}, `["a",1]`},
	}
	for _, c := range cases {
		if got := Stringify(c.in); got != c.want {
			t.Errorf("Stringify(%#v) = %q, want %q", c.in, got, c.want)
		}
	}
}
