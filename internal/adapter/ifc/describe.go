package ifc

import (
	"fmt"
	"strings"

	"bimrag/internal/domain"
)

// Describe renders an element as one pipe-delimited descriptive string
// suitable for embedding. The segment order is fixed: element type,
// name, description, then each property set with its properties.
// The result is a pure function of the element; repeated calls are
// byte-identical.
//
// A property is included whenever it has a value. Zero is a value:
// building measurements can legitimately be zero, so filtering must
// never be a truthiness check.
func Describe(el domain.Element) string {
	var b strings.Builder

	typ := el.Type
	if typ == "" {
		typ = "Unknown"
	}
	b.WriteString("Element Type: ")
	b.WriteString(typ)

	if el.Name != "" {
		b.WriteString(" | Name: ")
		b.WriteString(el.Name)
	}
	if el.Description != "" {
		b.WriteString(" | Description: ")
		b.WriteString(el.Description)
	}

	for _, ps := range el.PropertySets {
		wroteHeader := false
		for _, p := range ps.Properties {
			if !p.HasValue() {
				continue
			}
			if !wroteHeader {
				// Sets with no eligible properties get no header.
				b.WriteString(" | Property Set: ")
				b.WriteString(ps.Name)
				wroteHeader = true
			}
			b.WriteString(" | ")
			b.WriteString(p.Name)
			b.WriteString(": ")
			fmt.Fprintf(&b, "%v", p.Value)
			if p.Unit != "" {
				b.WriteString(" ")
				b.WriteString(p.Unit)
			}
		}
	}

	return b.String()
}

// DescribeAll renders every element of a model, in model order.
func DescribeAll(elements []domain.Element) []string {
	texts := make([]string, len(elements))
	for i, el := range elements {
		texts[i] = Describe(el)
	}
	return texts
}
