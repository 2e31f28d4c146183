// Package report renders build reports for the terminal.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/incc/internal/core/domain"
	"go.trai.ch/incc/internal/core/ports"
	"go.trai.ch/incc/internal/ui/output"
	"go.trai.ch/incc/internal/ui/style"
	"go.trai.ch/zerr"
)

var _ ports.Reporter = (*Renderer)(nil)

// statusWidth pads status labels so unit paths line up.
const statusWidth = len("compiled")

// Renderer implements ports.Reporter with one line per unit and a summary line.
type Renderer struct {
	mu  sync.Mutex
	out *termenv.Output
}

// New creates a Renderer writing to os.Stdout.
func New() *Renderer {
	return NewWithOutput(output.New(os.Stdout))
}

// NewWithOutput creates a Renderer writing to out.
func NewWithOutput(out *termenv.Output) *Renderer {
	return &Renderer{out: out}
}

// Report writes the outcome of every unit.
// Failed units are followed by the compiler's diagnostics, verbatim.
func (r *Renderer) Report(rep *domain.BuildReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var b strings.Builder
	for _, o := range rep.Outcomes {
		icon, color := decorate(o.Status)
		line := fmt.Sprintf("%s %-*s %s", icon, statusWidth, o.Status, o.RelativePath)
		if o.Duration > 0 {
			line += " (" + formatDuration(o.Duration) + ")"
		}
		b.WriteString(r.out.String(line).Foreground(color).String())
		b.WriteByte('\n')

		if o.Status == domain.UnitStatusFailed && o.Diagnostics != "" {
			for _, d := range strings.Split(strings.TrimRight(o.Diagnostics, "\n"), "\n") {
				b.WriteString("    " + d + "\n")
			}
		}
	}

	if len(rep.Outcomes) > 0 {
		b.WriteByte('\n')
	}
	b.WriteString(summary(rep))
	b.WriteByte('\n')

	if _, err := io.WriteString(r.out, b.String()); err != nil {
		return zerr.Wrap(err, "failed to write build report")
	}
	return nil
}

func decorate(s domain.UnitStatus) (string, termenv.Color) {
	switch s {
	case domain.UnitStatusCompiled:
		return style.Check, termenv.RGBColor(string(style.Green))
	case domain.UnitStatusFailed:
		return style.Cross, termenv.RGBColor(string(style.Red))
	case domain.UnitStatusRemoved:
		return style.Dash, termenv.RGBColor(string(style.Yellow))
	default:
		return style.Tilde, termenv.RGBColor(string(style.Slate))
	}
}

// formatDuration renders compile times at millisecond precision below a second
// and at centisecond precision above.
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return "<1ms"
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	default:
		return d.Round(10 * time.Millisecond).String()
	}
}

func summary(rep *domain.BuildReport) string {
	invocations := "invocations"
	if rep.Invocations == 1 {
		invocations = "invocation"
	}
	return fmt.Sprintf("%d compiled, %d failed, %d skipped, %d removed (%d compiler %s)",
		rep.Count(domain.UnitStatusCompiled),
		rep.Count(domain.UnitStatusFailed),
		rep.Count(domain.UnitStatusSkipped),
		rep.Count(domain.UnitStatusRemoved),
		rep.Invocations, invocations,
	)
}
