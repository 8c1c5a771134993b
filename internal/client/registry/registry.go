// Package registry holds the static catalog of PII categories and field
// definitions: display labels, placeholders, hints, and per-field validation
// rules. The catalog is advisory — records fetched from the server may
// reference field ids the client does not know, and those degrade to the raw
// id with no validation.
package registry

// FieldDefinition describes a single field of the taxonomy. Definitions are
// immutable; the field id is the unique key within its category.
type FieldDefinition struct {
	ID          string
	Category    string
	Label       string
	Placeholder string
	Hint        string
	rule        *Rule
}

// Rule returns the validation rule registered for the field, or nil when the
// field has none.
func (d FieldDefinition) Rule() *Rule {
	return d.rule
}

// Category is an ordered group of field definitions.
type Category struct {
	Name   string
	Fields []FieldDefinition
}

var fieldIndex = map[string]FieldDefinition{}

func init() {
	for _, c := range catalog {
		for _, f := range c.Fields {
			fieldIndex[f.ID] = f
		}
	}
}

// Categories returns the catalog in its canonical order.
func Categories() []Category {
	out := make([]Category, len(catalog))
	copy(out, catalog)
	return out
}

// CategoryByName returns the category with the given display name.
func CategoryByName(name string) (Category, bool) {
	for _, c := range catalog {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// Lookup returns the definition for a field id. The second result reports
// whether the id is registered; callers must handle the unregistered case
// rather than rely on a fallback value.
func Lookup(fieldID string) (FieldDefinition, bool) {
	d, ok := fieldIndex[fieldID]
	return d, ok
}

// DisplayName returns the human-readable label for a field id, falling back
// to the raw id for fields the catalog does not know.
func DisplayName(fieldID string) string {
	if d, ok := fieldIndex[fieldID]; ok {
		return d.Label
	}
	return fieldID
}
