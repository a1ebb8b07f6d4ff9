package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/dogfinder/dogfinder/types"
)

// DetailsMarkdown describes a breed as markdown. Empty fields are left out.
func DetailsMarkdown(b types.Breed) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", b.Name)

	row := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&sb, "| %s | %s |\n", label, value)
		}
	}

	sb.WriteString("| | |\n|---|---|\n")
	row("Breed Group", b.BreedGroup)
	row("Bred For", b.BredFor)
	row("Life Span", b.LifeSpan)
	if b.Weight.Metric != "" {
		row("Weight", b.Weight.Metric+" kg")
	}
	if b.Height.Metric != "" {
		row("Height", b.Height.Metric+" cm")
	}

	if b.Temperament != "" {
		fmt.Fprintf(&sb, "\n## Temperament\n\n%s\n", b.Temperament)
	}
	if url := b.ImageURL(); url != "" {
		fmt.Fprintf(&sb, "\n[Photo](%s)\n", url)
	}
	return sb.String()
}

// Renderer turns markdown into terminal output.
type Renderer struct {
	r *glamour.TermRenderer
}

// NewRenderer creates a Renderer that detects a light or dark background and
// wraps at width. A non-positive width keeps glamour's default.
func NewRenderer(width int) (*Renderer, error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return &Renderer{r: r}, nil
}

// Details renders the breed details page. On a rendering failure the raw
// markdown is returned.
func (r *Renderer) Details(b types.Breed) string {
	md := DetailsMarkdown(b)
	out, err := r.r.Render(md)
	if err != nil {
		return md
	}
	return out
}
