package model

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestMergeReplacesWholeCategory(t *testing.T) {
	base := CompatibilityMap{"a": {"1", "2"}, "b": {"x"}}
	overrides := CompatibilityMap{"a": {"3"}}

	got := Merge(base, overrides)

	want := CompatibilityMap{"a": {"3"}, "b": {"x"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Merge mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, OptionSet{"1", "2"}, base["a"], "base must not be modified")
}

func TestMergeDoesNotAliasInputs(t *testing.T) {
	base := CompatibilityMap{"a": {"1"}}
	overrides := CompatibilityMap{"b": {"2"}}

	got := Merge(base, overrides)
	got["a"][0] = "changed"
	got["b"][0] = "changed"

	assert.Equal(t, "1", base["a"][0])
	assert.Equal(t, "2", overrides["b"][0])
}

func TestMergeMissingKeyKeepsPreviousLayer(t *testing.T) {
	got := Merge(CompatibilityMap{"a": {"1"}}, CompatibilityMap{})
	assert.Equal(t, CompatibilityMap{"a": {"1"}}, got)

	got = Merge(nil, nil)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestEffectivePrecedence(t *testing.T) {
	p := Process{ID: "p", Compatibility: CompatibilityMap{"A": {"1"}, "B": {"b"}}}
	v := Variant{
		ID:                     "v",
		Refinements:            CompatibilityMap{"A": {"2"}},
		CompatibilityOverrides: CompatibilityMap{"A": {"3"}},
	}

	got := Effective(p, v)

	assert.Equal(t, OptionSet{"3"}, got["A"], "overrides beat refinements beat process default")
	assert.Equal(t, OptionSet{"b"}, got["B"], "untouched categories inherit the process entry")
}

func TestEffectiveRefinementsBeatOwnCompatibility(t *testing.T) {
	p := Process{Compatibility: CompatibilityMap{"A": {"1"}}}
	v := Variant{
		Compatibility: CompatibilityMap{"A": {"own"}, "C": {"c"}},
		Refinements:   CompatibilityMap{"A": {"refined"}},
	}

	got := Effective(p, v)

	want := CompatibilityMap{"A": {"refined"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Effective mismatch (-want +got):\n%s", diff)
	}
}

func TestEffectiveFallsBackToOwnCompatibility(t *testing.T) {
	p := Process{Compatibility: CompatibilityMap{"A": {"1"}, "B": {"b"}}}
	v := Variant{
		Compatibility: CompatibilityMap{"A": {"2"}},
		Refinements:   CompatibilityMap{},
	}

	got := Effective(p, v)

	want := CompatibilityMap{"A": {"2"}, "B": {"b"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Effective mismatch (-want +got):\n%s", diff)
	}
}

func TestEffectiveIsRederivable(t *testing.T) {
	p := Process{Compatibility: CompatibilityMap{"A": {"1"}}}
	v := Variant{Compatibility: CompatibilityMap{"B": {"2"}}}

	first := Effective(p, v)
	first["A"] = OptionSet{"mutated"}

	assert.Equal(t, CompatibilityMap{"A": {"1"}, "B": {"2"}}, Effective(p, v))
}

func TestOptionSetAddIgnoresDuplicates(t *testing.T) {
	var s OptionSet
	s = s.Add("a").Add("b").Add("a")
	assert.Equal(t, OptionSet{"a", "b"}, s)
	assert.True(t, s.Contains("b"))
	assert.False(t, s.Contains("c"))
}

func TestCompatibilityMapDecoding(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var m CompatibilityMap
		require.NoError(t, json.Unmarshal([]byte(`{"sz":["s","l","s"],"clr":"r"}`), &m))
		assert.Equal(t, CompatibilityMap{"sz": {"s", "l"}, "clr": {"r"}}, m)
	})

	t.Run("yaml", func(t *testing.T) {
		var m CompatibilityMap
		require.NoError(t, yaml.Unmarshal([]byte("sz: [s, l, s]\nclr: r\n"), &m))
		assert.Equal(t, CompatibilityMap{"sz": {"s", "l"}, "clr": {"r"}}, m)
	})

	t.Run("null is present but empty", func(t *testing.T) {
		var fromJSON CompatibilityMap
		require.NoError(t, json.Unmarshal([]byte(`{"sz":null,"clr":["r"]}`), &fromJSON))
		require.Contains(t, fromJSON, "sz")
		assert.Empty(t, fromJSON["sz"])
		assert.False(t, fromJSON["sz"].Contains(""))

		var fromYAML CompatibilityMap
		require.NoError(t, yaml.Unmarshal([]byte("sz: ~\nclr: [r]\n"), &fromYAML))
		require.Contains(t, fromYAML, "sz")
		assert.Empty(t, fromYAML["sz"])
	})

	t.Run("json rejects objects", func(t *testing.T) {
		var m CompatibilityMap
		require.Error(t, json.Unmarshal([]byte(`{"sz":{"s":true}}`), &m))
	})
}
