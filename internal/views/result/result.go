// Package result renders the report shown once a search ends.
package result

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/wordsearch/wordsearch/internal/session"
)

// Markdown returns the report for a terminal state as markdown, or "" for
// states that have no report.
func Markdown(st session.State) string {
	var b strings.Builder
	switch st.Phase {
	case session.PhaseCompleted:
		r := st.Result
		if r == nil {
			return ""
		}
		fmt.Fprintf(&b, "## Search complete\n\n")
		fmt.Fprintf(&b, "Found **%d** %s of `%s` in %d of %d files.\n",
			r.MatchCount, plural(r.MatchCount, "match", "matches"), r.Keyword, r.ProcessedFiles, r.TotalFiles)

	case session.PhaseFailed:
		if st.Err == nil {
			return ""
		}
		fmt.Fprintf(&b, "## Search failed\n\n")
		switch st.Err.Kind {
		case session.KindServer:
			fmt.Fprintf(&b, "The server reported an error while searching for `%s`:\n\n", st.Keyword)
		default:
			fmt.Fprintf(&b, "The search for `%s` was interrupted:\n\n", st.Keyword)
		}
		fmt.Fprintf(&b, "> %s\n", quote(st.Err.Message))

	case session.PhaseStopped:
		fmt.Fprintf(&b, "## Search stopped\n\n")
		if p := st.Progress; p != nil {
			fmt.Fprintf(&b, "Stopped `%s` after %d of %d files with %d %s so far.\n",
				st.Keyword, p.ProcessedFiles, p.TotalFiles, p.MatchCount, plural(p.MatchCount, "match", "matches"))
		} else {
			fmt.Fprintf(&b, "Stopped `%s` before any progress was reported.\n", st.Keyword)
		}

	default:
		return ""
	}
	return b.String()
}

// Renderer turns reports into styled terminal output.
type Renderer struct {
	width    int
	renderer *glamour.TermRenderer
}

// NewRenderer creates a renderer that wraps at width.
func NewRenderer(width int) *Renderer {
	width = max(40, width)
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return &Renderer{width: width}
	}
	return &Renderer{width: width, renderer: r}
}

// Width returns the wrap width.
func (r *Renderer) Width() int { return r.width }

// Render returns the styled report for st. When styling fails the plain
// markdown is returned.
func (r *Renderer) Render(st session.State) string {
	md := Markdown(st)
	if md == "" || r.renderer == nil {
		return md
	}
	out, err := r.renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// quote keeps a multi-line server message inside one blockquote.
func quote(s string) string {
	if s == "" {
		return "(no message)"
	}
	return strings.ReplaceAll(s, "\n", "\n> ")
}
