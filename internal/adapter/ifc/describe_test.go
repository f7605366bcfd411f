package ifc

import (
	"strings"
	"testing"

	"bimrag/internal/domain"
)

func TestDescribeBasic(t *testing.T) {
	el := domain.Element{
		Type: "IfcWall",
		Name: "Wall-01",
	}

	got := Describe(el)
	want := "Element Type: IfcWall | Name: Wall-01"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestDescribeMissingType(t *testing.T) {
	el := domain.Element{Name: "Unnamed"}

	got := Describe(el)
	if !strings.HasPrefix(got, "Element Type: Unknown") {
		t.Errorf("expected Unknown type fallback, got %q", got)
	}
}

func TestDescribeEmptyNameSkipped(t *testing.T) {
	el := domain.Element{Type: "IfcWindow", Name: ""}

	got := Describe(el)
	want := "Element Type: IfcWindow"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestDescribeProperties(t *testing.T) {
	el := domain.Element{
		Type: "IfcDoor",
		Name: "Door-01",
		PropertySets: []domain.PropertySet{
			{
				Name: "Pset_Door",
				Properties: []domain.Property{
					{Name: "Width", Value: 900, Unit: "mm"},
				},
			},
		},
	}

	got := Describe(el)
	want := "Element Type: IfcDoor | Name: Door-01 | Property Set: Pset_Door | Width: 900 mm"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestDescribeZeroValueIncluded(t *testing.T) {
	// Building measurements can legitimately be zero; a zero value must
	// survive into the text.
	el := domain.Element{
		Type: "IfcSlab",
		PropertySets: []domain.PropertySet{
			{
				Name: "Pset_Slab",
				Properties: []domain.Property{
					{Name: "Thickness", Value: 0, Unit: "mm"},
				},
			},
		},
	}

	got := Describe(el)
	if !strings.Contains(got, "Thickness: 0 mm") {
		t.Errorf("expected zero-valued property in output, got %q", got)
	}
}

func TestDescribeNilAndEmptyValuesSkipped(t *testing.T) {
	el := domain.Element{
		Type: "IfcBeam",
		PropertySets: []domain.PropertySet{
			{
				Name: "Pset_Beam",
				Properties: []domain.Property{
					{Name: "Material", Value: nil},
					{Name: "Grade", Value: ""},
					{Name: "Span", Value: 4.5, Unit: "m"},
				},
			},
		},
	}

	got := Describe(el)
	want := "Element Type: IfcBeam | Property Set: Pset_Beam | Span: 4.5 m"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestDescribeEmptyPropertySetSkipped(t *testing.T) {
	el := domain.Element{
		Type: "IfcColumn",
		PropertySets: []domain.PropertySet{
			{Name: "Pset_Empty"},
			{
				Name: "Pset_AllNil",
				Properties: []domain.Property{
					{Name: "A", Value: nil},
				},
			},
		},
	}

	got := Describe(el)
	if strings.Contains(got, "Property Set") {
		t.Errorf("expected no property set headers, got %q", got)
	}
}

func TestDescribeDeterministic(t *testing.T) {
	el := domain.Element{
		Type:        "IfcRoof",
		Name:        "Roof-01",
		Description: "Pitched roof",
		PropertySets: []domain.PropertySet{
			{
				Name: "Pset_Roof",
				Properties: []domain.Property{
					{Name: "Slope", Value: 35, Unit: "deg"},
					{Name: "IsExternal", Value: true},
				},
			},
		},
	}

	first := Describe(el)
	for i := 0; i < 10; i++ {
		if got := Describe(el); got != first {
			t.Fatalf("call %d differed: %q vs %q", i, got, first)
		}
	}
}

func TestDescribeAllOrderAndContent(t *testing.T) {
	elements := []domain.Element{
		{Type: "IfcWall", Name: "Wall-01"},
		{
			Type: "IfcDoor",
			Name: "Door-01",
			PropertySets: []domain.PropertySet{
				{
					Name: "Pset_Door",
					Properties: []domain.Property{
						{Name: "Width", Value: 900, Unit: "mm"},
					},
				},
			},
		},
		{Type: "IfcWindow", Name: ""},
	}

	want := []string{
		"Element Type: IfcWall | Name: Wall-01",
		"Element Type: IfcDoor | Name: Door-01 | Property Set: Pset_Door | Width: 900 mm",
		"Element Type: IfcWindow",
	}

	got := DescribeAll(elements)
	if len(got) != len(want) {
		t.Fatalf("expected %d texts, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("text %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
