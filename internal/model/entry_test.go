package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestFlattenOrderAndEffectiveMaps(t *testing.T) {
	cfg := &Configuration{
		Processes: []Process{
			{
				ID: "P1", Label: "Proc One",
				Compatibility: CompatibilityMap{"sz": {"s"}},
				Variants: []Variant{
					{ID: "V1", Label: "Variant One", Compatibility: CompatibilityMap{"clr": {"r"}}},
					{ID: "V2", Label: "Variant Two", CompatibilityOverrides: CompatibilityMap{"sz": {"l"}}},
				},
			},
			{ID: "P2", Label: "Proc Two"},
		},
	}

	got := Flatten(cfg)

	want := []Entry{
		{Kind: EntryProcess, ID: "P1", Label: "Proc One", Compatibility: CompatibilityMap{"sz": {"s"}}},
		{Kind: EntryVariant, ID: "V1", Label: "Variant One", Compatibility: CompatibilityMap{"sz": {"s"}, "clr": {"r"}}, ParentID: "P1", ParentLabel: "Proc One"},
		{Kind: EntryVariant, ID: "V2", Label: "Variant Two", Compatibility: CompatibilityMap{"sz": {"l"}}, ParentID: "P1", ParentLabel: "Proc One"},
		{Kind: EntryProcess, ID: "P2", Label: "Proc Two", Compatibility: CompatibilityMap{}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Flatten mismatch (-want +got):\n%s", diff)
	}
}

func TestFlattenNil(t *testing.T) {
	assert.Nil(t, Flatten(nil))
}

func TestCategoryIndexLabels(t *testing.T) {
	idx := IndexCategories([]Category{
		{ID: "sz", Label: "Size", Options: []Option{{ID: "s", Label: "Small"}, {ID: "l", Label: "Large"}}},
	})

	assert.Equal(t, "Size", idx.CategoryLabel("sz"))
	assert.Equal(t, "Small", idx.OptionLabel("sz", "s"))
	assert.Equal(t, "clr", idx.CategoryLabel("clr"), "unknown category falls back to id")
	assert.Equal(t, "xl", idx.OptionLabel("sz", "xl"), "unknown option falls back to id")
	assert.Equal(t, "r", idx.OptionLabel("clr", "r"))
}
