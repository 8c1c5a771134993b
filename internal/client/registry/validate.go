package registry

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/securevault/vaultctl/internal/common"
)

// Rule is a stateless format check: a pattern plus the message reported when
// input does not match.
type Rule struct {
	pattern *regexp.Regexp
	Message string
}

// Matches reports whether v satisfies the rule.
func (r *Rule) Matches(v string) bool {
	return r.pattern.MatchString(v)
}

func mustRule(pattern, message string) *Rule {
	return &Rule{pattern: regexp.MustCompile(pattern), Message: message}
}

var rules = map[string]*Rule{
	"fullname":               mustRule(`^[a-zA-Z\s.']{2,100}$`, "Please enter a valid name."),
	"dob":                    mustRule(`^\d{4}-\d{2}-\d{2}$`, "Date of Birth must be in YYYY-MM-DD format."),
	"phone":                  mustRule(`^\+?[0-9\s-]{10,15}$`, "Invalid phone number format."),
	"email":                  mustRule(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`, "Invalid email address."),
	"address":                mustRule(`^[a-zA-Z0-9\s,.'-]{10,255}$`, "Please enter a valid address."),
	"adhar":                  mustRule(`^\d{4}[-\s]?\d{4}[-\s]?\d{4}$`, "Aadhaar must be 12 digits."),
	"passport":               mustRule(`^[A-Z0-9-]{6,20}$`, "Invalid passport number format."),
	"pan":                    mustRule(`^[A-Z]{5}[0-9]{4}[A-Z]{1}$`, "Invalid PAN format. Must be ABCDE1234F."),
	"license":                mustRule(`^[A-Z0-9-]{5,20}$`, "Invalid license number format."),
	"smartcard":              mustRule(`^[a-zA-Z0-9]{10,20}$`, "Invalid smart card number format."),
	"professionallicence":    mustRule(`^[a-zA-Z0-9/\s-]{5,30}$`, "Invalid professional license format."),
	"accnum":                 mustRule(`^[0-9-]{8,20}$`, "Invalid account number format."),
	"creditnum":              mustRule(`^\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}$`, "Credit card must be 16 digits."),
	"cvv":                    mustRule(`^[0-9]{3,4}$`, "CVV must be 3 or 4 digits."),
	"tax":                    mustRule(`^[a-zA-Z0-9-]{10,30}$`, "Invalid tax ID format."),
	"pension":                mustRule(`^[a-zA-Z0-9-]{10,25}$`, "Invalid pension account format."),
	"tradingacc":             mustRule(`^[a-zA-Z0-9-]{8,20}$`, "Invalid trading account format."),
	"empid":                  mustRule(`^[a-zA-Z0-9-]{3,20}$`, "Invalid Employee ID format."),
	"workemail":              mustRule(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`, "Invalid work email address."),
	"emis":                   mustRule(`^[0-9]{10,20}$`, "EMIS number must be 10-20 digits."),
	"umis":                   mustRule(`^[a-zA-Z0-9]{10,20}$`, "Invalid UMIS number format."),
	"health_insurance":       mustRule(`^[a-zA-Z0-9-]{10,30}$`, "Invalid health insurance ID."),
	"patientid":              mustRule(`^[a-zA-Z0-9-]{5,25}$`, "Invalid patient ID."),
	"disability_certificate": mustRule(`^[a-zA-Z0-9/\s-]{10,30}$`, "Invalid certificate number."),
	"emergency_contact":      mustRule(`^[a-zA-Z0-9\s,.':+()-]{10,100}$`, "Invalid emergency contact format."),
}

// ValidationError reports input rejected by a field's rule. It matches
// common.ErrorValidation under errors.Is so callers can tell local rejections
// from transport failures.
type ValidationError struct {
	FieldID string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %s: %s", e.FieldID, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == common.ErrorValidation
}

// sanitizer strips the literal characters < > / & " ' from user input to
// reduce injection surface. Lossy and irreversible; applied once at the
// boundary, never to already-sanitized cached values.
var sanitizer = strings.NewReplacer("<", "", ">", "", "/", "", "&", "", `"`, "", "'", "")

// Sanitize removes the disallowed characters from v. Idempotent.
func Sanitize(v string) string {
	return sanitizer.Replace(v)
}

// Validate checks an already-sanitized value against the rule registered for
// fieldID. A field with no registered rule is always valid: the catalog is
// advisory, and server-side fields unknown to this client must not be
// rejected here.
func Validate(fieldID, value string) error {
	rule, ok := rules[fieldID]
	if !ok {
		return nil
	}
	if !rule.Matches(value) {
		return &ValidationError{FieldID: fieldID, Message: rule.Message}
	}
	return nil
}
