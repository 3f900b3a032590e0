package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/wippyai/shapecodec/errors"
)

type styles struct {
	title lipgloss.Style
	name  lipgloss.Style
	ok    lipgloss.Style
	fail  lipgloss.Style
	kind  lipgloss.Style
	path  lipgloss.Style
	muted lipgloss.Style
}

// newStyles binds styles to w. With mode "auto" colors are used only when
// w is a terminal.
func newStyles(w io.Writer, mode string) styles {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case "always":
		r.SetColorProfile(termenv.ANSI256)
	case "never":
		r.SetColorProfile(termenv.Ascii)
	default:
		if !isTerminal(w) {
			r.SetColorProfile(termenv.Ascii)
		}
	}

	return styles{
		title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		name: r.NewStyle().
			Foreground(lipgloss.Color("#87CEEB")),
		ok: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#90EE90")),
		fail: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")),
		kind: r.NewStyle().
			Foreground(lipgloss.Color("#FFD700")),
		path: r.NewStyle().
			Foreground(lipgloss.Color("#98FB98")),
		muted: r.NewStyle().
			Foreground(lipgloss.Color("#666666")),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// failure prints the error chain outermost first, one level per line.
func (s styles) failure(w io.Writer, shape string, err error) {
	fmt.Fprintln(w, s.fail.Render("INVALID")+" "+s.name.Render(shape))

	var top *errors.Error
	if e, ok := err.(*errors.Error); ok {
		top = e
	}
	if top != nil {
		fmt.Fprintf(w, "  %s %s\n", s.kind.Render(string(top.Phase)+"/"+string(top.Kind)), s.muted.Render("(innermost: "+string(innermost(err))+")"))
	}

	for i, line := range chain(err) {
		indent := strings.Repeat("  ", i+1)
		line = strings.ReplaceAll(line, "\n", "\n"+indent)
		fmt.Fprintf(w, "%s%s\n", indent, line)
	}
}

// chain splits err into one message per wrapping level.
func chain(err error) []string {
	var lines []string
	for err != nil {
		e, ok := err.(*errors.Error)
		if !ok {
			lines = append(lines, err.Error())
			break
		}
		level := *e
		level.Cause = nil
		lines = append(lines, level.Error())
		err = e.Cause
	}
	return lines
}

func innermost(err error) errors.Kind {
	var kind errors.Kind
	for err != nil {
		if e, ok := err.(*errors.Error); ok {
			kind = e.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return kind
}
