// Package output formats terminal output: status lines, masked previews,
// and tabular listings.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Printer writes formatted messages. Writers are injectable so command tests
// can capture output.
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
}

// NewPrinter builds a printer for stdout/stderr. Colors follow the terminal
// conventions: NO_COLOR and TERM=dumb disable them.
func NewPrinter() *Printer {
	return &Printer{
		out:       os.Stdout,
		err:       os.Stderr,
		useColors: colorsEnabled(),
	}
}

// NewPrinterTo builds a printer for arbitrary writers with colors off.
func NewPrinterTo(out, errw io.Writer) *Printer {
	return &Printer{out: out, err: errw}
}

func colorsEnabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return true
}

// Print writes a plain line.
func (p *Printer) Print(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Info writes an informational line.
func (p *Printer) Info(format string, args ...any) {
	if p.useColors {
		color.New(color.FgCyan).Fprintf(p.out, format+"\n", args...)
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Success writes a confirmation line.
func (p *Printer) Success(format string, args ...any) {
	if p.useColors {
		color.New(color.FgGreen).Fprintf(p.out, "✓ "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.out, "[OK] "+format+"\n", args...)
}

// Warning writes a warning line to the error stream.
func (p *Printer) Warning(format string, args ...any) {
	if p.useColors {
		color.New(color.FgYellow).Fprintf(p.err, "⚠ "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.err, "[WARN] "+format+"\n", args...)
}

// Error writes an error line to the error stream.
func (p *Printer) Error(format string, args ...any) {
	if p.useColors {
		color.New(color.FgRed).Fprintf(p.err, "✗ "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.err, "[ERROR] "+format+"\n", args...)
}

// Header writes a section title with an underline.
func (p *Printer) Header(title string) {
	rule := strings.Repeat("-", len(title))
	if p.useColors {
		color.New(color.FgWhite, color.Bold).Fprintf(p.out, "\n%s\n", title)
		fmt.Fprintf(p.out, "%s\n", rule)
		return
	}
	fmt.Fprintf(p.out, "\n%s\n%s\n", title, rule)
}

// Bold returns the text emphasized when colors are on.
func (p *Printer) Bold(text string) string {
	if p.useColors {
		return color.New(color.Bold).Sprint(text)
	}
	return text
}

// Dim returns the text de-emphasized when colors are on.
func (p *Printer) Dim(text string) string {
	if p.useColors {
		return color.New(color.Faint).Sprint(text)
	}
	return text
}

// Masked renders a hidden field value as a fixed-width placeholder. The
// width never depends on the plaintext length.
func (p *Printer) Masked() string {
	return p.Dim("••••••••")
}
