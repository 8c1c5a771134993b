// Package submit drives the add-data flow: pick a category, pick a field
// belonging to it, enter a value, and send it for encrypted storage.
package submit

import (
	"context"
	"fmt"

	"github.com/securevault/vaultctl/internal/client/api"
	"github.com/securevault/vaultctl/internal/client/registry"
	"github.com/securevault/vaultctl/internal/logging"
)

// Form is the in-progress submission. Category and field are constrained to
// the catalog; changing the category discards the field selection because
// field ids are only meaningful within their category.
type Form struct {
	client api.Client
	logger logging.Logger

	category registry.Category
	field    registry.FieldDefinition
	hasCat   bool
	hasField bool
	value    string
}

func NewForm(client api.Client, logger logging.Logger) *Form {
	return &Form{client: client, logger: logger}
}

// SetCategory selects the category by display name and resets any previous
// field selection.
func (f *Form) SetCategory(name string) error {
	c, ok := registry.CategoryByName(name)
	if !ok {
		return fmt.Errorf("unknown category %q", name)
	}
	f.category = c
	f.hasCat = true
	f.field = registry.FieldDefinition{}
	f.hasField = false
	return nil
}

// SetField selects a field by id. The field must belong to the selected
// category.
func (f *Form) SetField(fieldID string) error {
	if !f.hasCat {
		return fmt.Errorf("select a category first")
	}
	for _, d := range f.category.Fields {
		if d.ID == fieldID {
			f.field = d
			f.hasField = true
			return nil
		}
	}
	return fmt.Errorf("field %q does not belong to category %q", fieldID, f.category.Name)
}

// SetValue stores the raw user input. Sanitization happens at submit time.
func (f *Form) SetValue(value string) {
	f.value = value
}

// Category returns the selected category, if any.
func (f *Form) Category() (registry.Category, bool) {
	return f.category, f.hasCat
}

// Field returns the selected field, if any.
func (f *Form) Field() (registry.FieldDefinition, bool) {
	return f.field, f.hasField
}

// Value returns the raw entered value.
func (f *Form) Value() string {
	return f.value
}

// Submit sanitizes and validates the entry, then sends it for encrypted
// storage. Any local rejection or server failure leaves the form intact so
// the user can correct and retry; the form resets only after the server
// acknowledges.
func (f *Form) Submit(ctx context.Context) error {
	if !f.hasCat {
		return fmt.Errorf("no category selected")
	}
	if !f.hasField {
		return fmt.Errorf("no field selected")
	}

	sanitized := registry.Sanitize(f.value)
	if sanitized == "" {
		return fmt.Errorf("value is empty")
	}
	if err := registry.Validate(f.field.ID, sanitized); err != nil {
		return err
	}

	if err := f.client.EncryptField(ctx, f.category.Name, f.field.ID, sanitized); err != nil {
		return err
	}

	f.logger.Info(ctx, "field submitted", "category", f.category.Name, "field", f.field.ID)
	f.Reset()
	return nil
}

// Reset clears all selections and the entered value.
func (f *Form) Reset() {
	f.category = registry.Category{}
	f.field = registry.FieldDefinition{}
	f.hasCat = false
	f.hasField = false
	f.value = ""
}
