package ifc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"bimrag/internal/domain"
)

// Loader reads pre-structured building-model JSON: the processed form
// an IFC pipeline emits, with file_info, elements and summary sections.
// Raw IFC geometry is out of scope; an external processor produces the
// JSON this loader consumes.
type Loader struct{}

func NewLoader() *Loader {
	return &Loader{}
}

type rawFile struct {
	FileInfo rawFileInfo  `json:"file_info"`
	Elements []rawElement `json:"elements"`
}

type rawFileInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type rawElement struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Properties  orderedPropSets `json:"properties"`
}

// Load reads a model file from disk. Element order follows the file;
// that order becomes the store index order exposed in search results.
func (l *Loader) Load(path string) (*domain.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}

	var raw rawFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse model file %s: %w", filepath.Base(path), err)
	}
	if raw.Elements == nil {
		return nil, fmt.Errorf("model file %s has no elements section", filepath.Base(path))
	}

	elements := make([]domain.Element, len(raw.Elements))
	for i, re := range raw.Elements {
		elements[i] = domain.Element{
			ID:           re.ID,
			Type:         re.Type,
			Name:         re.Name,
			Description:  re.Description,
			PropertySets: re.Properties,
		}
	}

	name := raw.FileInfo.Name
	if name == "" {
		name = filepath.Base(path)
	}
	typ := raw.FileInfo.Type
	if typ == "" {
		typ = "JSON"
	}

	return &domain.Model{
		FileInfo: domain.FileInfo{
			Name: name,
			Path: path,
			Size: int64(len(data)),
			Type: typ,
		},
		Elements: elements,
		Summary:  summarize(elements),
	}, nil
}

func summarize(elements []domain.Element) domain.Summary {
	seen := make(map[string]bool)
	var types []string
	for _, el := range elements {
		if !seen[el.Type] {
			seen[el.Type] = true
			types = append(types, el.Type)
		}
	}
	sort.Strings(types)
	return domain.Summary{
		TotalElements: len(elements),
		ElementTypes:  types,
	}
}

// orderedPropSets decodes a JSON object of property sets while keeping
// the key order of the document. encoding/json maps lose insertion
// order, so the object is walked token by token instead.
type orderedPropSets []domain.PropertySet

func (o *orderedPropSets) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("properties must be a JSON object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := keyTok.(string)

		var props orderedProps
		if err := dec.Decode(&props); err != nil {
			return fmt.Errorf("property set %q: %w", name, err)
		}
		*o = append(*o, domain.PropertySet{Name: name, Properties: props})
	}

	_, err = dec.Token()
	return err
}

type orderedProps []domain.Property

func (o *orderedProps) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("property set must be a JSON object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := keyTok.(string)

		var pv struct {
			Value any     `json:"value"`
			Unit  *string `json:"unit"`
		}
		if err := dec.Decode(&pv); err != nil {
			return fmt.Errorf("property %q: %w", name, err)
		}
		unit := ""
		if pv.Unit != nil {
			unit = *pv.Unit
		}
		*o = append(*o, domain.Property{Name: name, Value: pv.Value, Unit: unit})
	}

	_, err = dec.Token()
	return err
}
