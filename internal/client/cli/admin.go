package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/securevault/vaultctl/internal/client/api"
	"github.com/securevault/vaultctl/internal/client/output"
)

// Users loads and prints the user roster with per-record masked previews.
// The admin view never receives plaintext.
func (a *App) Users(ctx context.Context) error {
	if err := a.users.Load(ctx); err != nil {
		a.printer.Error("Could not load users: %s", api.Message(err))
		return err
	}
	users := a.users.Users()

	table := output.NewTable(a.out, []string{"ID", "Username", "Email", "Records", "Joined", "Status"})
	for _, u := range users {
		table.AddRow(
			strconv.FormatInt(u.ID, 10),
			u.Username,
			u.Email,
			fmt.Sprintf("%d", u.RecordsCount),
			u.JoinDate,
			u.Status,
		)
	}
	table.Render()

	var active, records int
	for _, u := range users {
		if u.Status == "active" {
			active++
		}
		records += u.RecordsCount
	}
	a.printer.Print("%d users, %d active, %d records stored.", len(users), active, records)

	previews := output.NewTable(a.out, []string{"User", "Category", "Field", "Preview"})
	hasPreviews := false
	for _, u := range users {
		for _, r := range u.Records {
			for _, field := range r.Fields {
				if preview, ok := r.MaskedData[field]; ok {
					previews.AddRow(u.Username, r.Type, field, preview)
					hasPreviews = true
				}
			}
		}
	}
	if hasPreviews {
		a.printer.Header("Stored data (masked)")
		previews.Render()
	}
	return nil
}

// DeleteUser removes an account and all its stored data after a confirmation
// naming the account.
func (a *App) DeleteUser(ctx context.Context) error {
	raw, err := getSimpleText(a.reader, "User ID", a.out)
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		a.printer.Error("Invalid user id %q.", raw)
		return err
	}

	user, ok := a.users.User(id)
	if !ok {
		a.printer.Error("No user with id %d. Run 'users' to refresh the roster.", id)
		return fmt.Errorf("no user %d", id)
	}

	prompt := fmt.Sprintf("Delete user %s (%s) and all their stored data? This cannot be undone.", user.Username, user.Email)
	confirmed, err := getConfirmation(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if !confirmed {
		a.printer.Info("Nothing deleted.")
		return nil
	}

	if err := a.users.Delete(ctx, id); err != nil {
		a.printer.Error("Delete failed: %s", api.Message(err))
		return err
	}
	a.printer.Success("User %s deleted.", user.Username)
	return nil
}
