package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	quoteBoxStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true).Padding(0, 1)
	quoteTitleStyle = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("63")).Foreground(lipgloss.Color("255")).Padding(0, 1)
)

// ConsoleSink writes finished quote reports to a terminal, framed so an
// operator can spot them between log lines.
type ConsoleSink struct {
	out io.Writer
}

func NewConsoleSink(out io.Writer) *ConsoleSink {
	return &ConsoleSink{out: out}
}

func (s *ConsoleSink) Publish(quote string) error {
	rendered := quoteTitleStyle.Render("NOVA COTAÇÃO") + "\n" + quoteBoxStyle.Render(quote) + "\n"
	_, err := fmt.Fprint(s.out, rendered)
	return err
}
