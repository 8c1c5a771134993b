package cli

import (
	"context"
	"fmt"

	"github.com/securevault/vaultctl/internal/client/api"
	"github.com/securevault/vaultctl/internal/client/output"
	"github.com/securevault/vaultctl/internal/client/registry"
	"github.com/securevault/vaultctl/internal/client/vault"
)

// List refreshes the category listing and prints the dashboard summary.
func (a *App) List(ctx context.Context) error {
	if err := a.store.Refresh(ctx); err != nil {
		a.printer.Error("Could not load vault: %s", api.Message(err))
		return err
	}
	a.printRecords(a.store.Records())
	a.printer.Print("%d categories, %d fields stored.", len(a.store.Records()), a.store.TotalFields())
	return nil
}

// Search filters the local listing by category name. No network traffic.
func (a *App) Search(ctx context.Context, term string) error {
	matches := a.store.Filter(term)
	if len(matches) == 0 {
		a.printer.Info("No categories match %q.", term)
		return nil
	}
	a.printRecords(matches)
	return nil
}

func (a *App) printRecords(records []api.CategoryRecord) {
	table := output.NewTable(a.out, []string{"Category", "Fields", "Date Added", "Status"})
	for _, r := range records {
		table.AddRow(r.Type, fmt.Sprintf("%d", len(r.Fields)), r.DateAdded, r.Status)
	}
	table.Render()
}

// Reveal decrypts every field of one category and prints the plaintext.
// Fields whose decrypt failed stay masked.
func (a *App) Reveal(ctx context.Context) error {
	category, err := getSimpleText(a.reader, "Category", a.out)
	if err != nil {
		return err
	}

	if err := a.store.Reveal(ctx, category); err != nil {
		a.printer.Warning("Some fields could not be decrypted: %s", err)
	}

	record, ok := a.store.Record(category)
	if !ok {
		a.printer.Error("No category named %q.", category)
		return fmt.Errorf("no category %q", category)
	}

	table := output.NewTable(a.out, []string{"Field", "Value"})
	for _, field := range record.Fields {
		value, state := a.store.FieldValue(category, field)
		if state != vault.Revealed {
			value = a.printer.Masked()
		}
		table.AddRow(registry.DisplayName(field), value)
	}
	table.Render()
	return nil
}

// Edit changes one field value: decrypt-backed draft, local validation,
// server update.
func (a *App) Edit(ctx context.Context) error {
	category, field, err := a.promptField()
	if err != nil {
		return err
	}

	edit := a.store.OpenEdit(category, field)
	if edit.Draft != "" {
		a.printer.Print("Current value: %s", edit.Draft)
	}

	value, err := getSimpleText(a.reader, "New value for "+registry.DisplayName(field), a.out)
	if err != nil {
		a.store.CancelEdit()
		return err
	}
	a.store.SetDraft(value)

	if err := a.store.SaveEdit(ctx); err != nil {
		a.printer.Error("Update failed: %s", api.Message(err))
		return err
	}

	a.printer.Success("%s updated.", registry.DisplayName(field))
	return nil
}

// DeleteField removes one field after an explicit confirmation naming it.
func (a *App) DeleteField(ctx context.Context) error {
	category, field, err := a.promptField()
	if err != nil {
		return err
	}

	prompt := fmt.Sprintf("Delete %s from %s? This cannot be undone.", registry.DisplayName(field), category)
	ok, err := getConfirmation(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if !ok {
		a.printer.Info("Nothing deleted.")
		return nil
	}

	if err := a.store.DeleteField(ctx, category, field); err != nil {
		a.printer.Error("Delete failed: %s", api.Message(err))
		return err
	}
	a.printer.Success("%s deleted from %s.", registry.DisplayName(field), category)
	return nil
}

// DeleteCategory removes a whole category and everything under it.
func (a *App) DeleteCategory(ctx context.Context) error {
	category, err := getSimpleText(a.reader, "Category", a.out)
	if err != nil {
		return err
	}
	record, ok := a.store.Record(category)
	if !ok {
		a.printer.Error("No category named %q.", category)
		return fmt.Errorf("no category %q", category)
	}

	prompt := fmt.Sprintf("Delete category %s and all %d fields in it? This cannot be undone.", category, len(record.Fields))
	confirmed, err := getConfirmation(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if !confirmed {
		a.printer.Info("Nothing deleted.")
		return nil
	}

	if err := a.store.DeleteCategory(ctx, category); err != nil {
		a.printer.Error("Delete failed: %s", api.Message(err))
		return err
	}
	a.printer.Success("Category %s deleted.", category)
	return nil
}

// promptField asks for a category and one of its stored fields.
func (a *App) promptField() (category, field string, err error) {
	category, err = getSimpleText(a.reader, "Category", a.out)
	if err != nil {
		return "", "", err
	}
	record, ok := a.store.Record(category)
	if !ok {
		a.printer.Error("No category named %q.", category)
		return "", "", fmt.Errorf("no category %q", category)
	}

	a.printer.Print("Stored fields: %s", fieldList(record.Fields))
	field, err = getSimpleText(a.reader, "Field", a.out)
	if err != nil {
		return "", "", err
	}
	for _, f := range record.Fields {
		if f == field {
			return category, field, nil
		}
	}
	a.printer.Error("No field %q in %s.", field, category)
	return "", "", fmt.Errorf("no field %q in category %q", field, category)
}

func fieldList(fields []string) string {
	out := ""
	for i, f := range fields {
		if i > 0 {
			out += ", "
		}
		out += f
	}
	return out
}
