package cli

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/securevault/vaultctl/internal/client/api"
	"github.com/securevault/vaultctl/internal/common"
)

// getSimpleText, getPassword and getConfirmation are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getConfirmation = GetConfirmation

const passwordSpecials = "!@#$%^&*"

// validatePassword enforces the account password policy: at least 8
// characters with an uppercase letter, a lowercase letter, a digit, and one
// of !@#$%^&*.
func validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	if !upper || !lower || !digit || !special {
		return fmt.Errorf("password must contain an uppercase letter, a lowercase letter, a digit, and one of %s", passwordSpecials)
	}
	return nil
}

// Login prompts for credentials, authenticates, and establishes the session.
// The landing view follows the role in the issued token. The password is
// wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	token, err := a.client.Login(ctx, email, string(password), a.config.CaptchaToken)
	if err != nil {
		a.printer.Error("Login failed: %s", api.Message(err))
		return err
	}

	view, err := a.sessions.Login(ctx, token)
	if err != nil {
		a.printer.Error("Login failed: %s", err)
		return err
	}

	a.printer.Success("Logged in. Landing view: %s.", view)
	return nil
}

// Register prompts for account details and creates a new account. The
// password policy is enforced locally before anything is sent.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Full name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := validatePassword(string(password)); err != nil {
		a.printer.Error("%s", err)
		return err
	}

	confirm, err := getPassword("Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if string(password) != string(confirm) {
		err := fmt.Errorf("passwords do not match")
		a.printer.Error("%s", err)
		return err
	}

	if err := a.client.Register(ctx, name, email, string(password), a.config.CaptchaToken); err != nil {
		a.printer.Error("Registration failed: %s", api.Message(err))
		return err
	}

	a.printer.Success("Account created, you can log in now.")
	return nil
}

// ResetPassword walks the recovery flow: request an OTP for the email,
// verify it, then set a new password that satisfies the policy.
func (a *App) ResetPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	if err := a.client.ForgotPassword(ctx, email); err != nil {
		a.printer.Error("Could not start password reset: %s", api.Message(err))
		return err
	}
	a.printer.Info("A one-time code was sent to %s.", email)

	otp, err := getSimpleText(a.reader, "One-time code", a.out)
	if err != nil {
		return err
	}
	if err := a.client.VerifyOTP(ctx, email, otp); err != nil {
		a.printer.Error("Code rejected: %s", api.Message(err))
		return err
	}

	password, err := getPassword("New password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := validatePassword(string(password)); err != nil {
		a.printer.Error("%s", err)
		return err
	}

	if err := a.client.ResetPassword(ctx, email, otp, string(password)); err != nil {
		a.printer.Error("Password reset failed: %s", api.Message(err))
		return err
	}

	a.printer.Success("Password updated, you can log in now.")
	return nil
}

// Logout ends the session. The decrypt cache lives in the vault store and
// does not outlive the process either way.
func (a *App) Logout(ctx context.Context) error {
	a.sessions.Logout(ctx)
	a.printer.Info("Logged out.")
	return nil
}
