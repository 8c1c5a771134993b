package cli

import (
	"context"

	"github.com/securevault/vaultctl/internal/client/api"
	"github.com/securevault/vaultctl/internal/client/registry"
)

// Add walks the submission flow: category, field within it, value. The value
// is sanitized and validated locally before it is sent for encrypted storage.
func (a *App) Add(ctx context.Context) error {
	a.printer.Header("Available categories")
	for _, c := range registry.Categories() {
		a.printer.Print("  %s", c.Name)
	}

	category, err := getSimpleText(a.reader, "Category", a.out)
	if err != nil {
		return err
	}
	if err := a.form.SetCategory(category); err != nil {
		a.printer.Error("%s", err)
		return err
	}

	selected, _ := a.form.Category()
	a.printer.Header("Fields in " + selected.Name)
	for _, f := range selected.Fields {
		a.printer.Print("  %-24s %s", f.ID, f.Label)
	}

	fieldID, err := getSimpleText(a.reader, "Field", a.out)
	if err != nil {
		return err
	}
	if err := a.form.SetField(fieldID); err != nil {
		a.printer.Error("%s", err)
		return err
	}

	field, _ := a.form.Field()
	if field.Hint != "" {
		a.printer.Info("%s", field.Hint)
	}
	prompt := "Value"
	if field.Placeholder != "" {
		prompt = "Value (e.g. " + field.Placeholder + ")"
	}

	value, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	a.form.SetValue(value)

	if err := a.form.Submit(ctx); err != nil {
		a.printer.Error("Could not store %s: %s", field.Label, api.Message(err))
		return err
	}

	a.printer.Success("%s stored securely.", field.Label)
	return a.store.Refresh(ctx)
}
