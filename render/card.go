package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dogfinder/dogfinder/gesture"
	"github.com/dogfinder/dogfinder/types"
)

const (
	AppTitle         = "DogFinder"
	DefaultCardWidth = 48

	maxCardOffset = 12
)

// Indicator is an overlay label shown while a card is dragged.
type Indicator string

const (
	IndicatorLike      Indicator = "LIKE"
	IndicatorNope      Indicator = "NOPE"
	IndicatorSuperLike Indicator = "SUPER LIKE"
)

// Indicators returns the labels for a live drag. Each axis is checked on its
// own, so a diagonal drag can show two labels even though only one direction
// wins on release.
func Indicators(s gesture.Session, threshold float64) []Indicator {
	if !s.Active {
		return nil
	}
	var out []Indicator
	if s.OffsetX > threshold {
		out = append(out, IndicatorLike)
	}
	if s.OffsetX < -threshold {
		out = append(out, IndicatorNope)
	}
	if s.OffsetY < -threshold {
		out = append(out, IndicatorSuperLike)
	}
	return out
}

func indicatorStyle(i Indicator) lipgloss.Style {
	switch i {
	case IndicatorLike:
		return likeStyle
	case IndicatorNope:
		return nopeStyle
	}
	return superStyle
}

// CardView is what a single card needs to render.
type CardView struct {
	Breed     types.Breed
	Index     int
	Total     int
	Session   gesture.Session
	Threshold float64
	Vote      *types.VoteValue
	Width     int
}

// Header renders the title and "n / total" progress line.
func Header(index, total int) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render(AppTitle),
		"  ",
		progressStyle.Render(fmt.Sprintf("%d / %d", index+1, total)),
	)
}

// Card renders the breed card. While dragging the card is shifted
// horizontally by a scaled-down offset and outlined in the accent color.
func Card(v CardView) string {
	width := v.Width
	if width <= 0 {
		width = DefaultCardWidth
	}

	lines := []string{nameStyle.Render(v.Breed.Name)}
	if v.Breed.BreedGroup != "" {
		lines = append(lines, groupStyle.Render(v.Breed.BreedGroup))
	}
	if v.Vote != nil {
		lines = append(lines, "", progressStyle.Render("Your vote: "+v.Vote.String()))
	}

	style := cardStyle
	if v.Session.Active {
		style = cardDraggingStyle
	}
	card := style.Width(width).Render(strings.Join(lines, "\n"))
	// kept outside the bordered body so a long link is never wrapped
	if url := v.Breed.ImageURL(); url != "" {
		card = lipgloss.JoinVertical(lipgloss.Left, card, " "+urlStyle.Render(url))
	}

	if shift := cardShift(v.Session); shift > 0 {
		card = lipgloss.NewStyle().MarginLeft(shift).Render(card)
	}

	var labels []string
	for _, ind := range Indicators(v.Session, v.Threshold) {
		labels = append(labels, indicatorStyle(ind).Render(string(ind)))
	}

	parts := []string{Header(v.Index, v.Total), ""}
	if len(labels) > 0 {
		parts = append(parts, lipgloss.JoinHorizontal(lipgloss.Top, labels...))
	}
	parts = append(parts, card)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func cardShift(s gesture.Session) int {
	if !s.Active || s.OffsetX <= 0 {
		return 0
	}
	shift := int(s.OffsetX / 10)
	if shift > maxCardOffset {
		shift = maxCardOffset
	}
	return shift
}

// Empty renders the end-of-list screen.
func Empty() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("No more breeds!"),
		progressStyle.Render("You've seen all the breeds. Great job!"),
	)
}

// Loading renders the loading screen.
func Loading(what string) string {
	return progressStyle.Render(fmt.Sprintf("Loading %s...", what))
}

// Error renders an error screen with a hint.
func Error(msg string) string {
	return errorStyle.Render(msg)
}

// Status renders a one-line status message.
func Status(msg string) string {
	return statusStyle.Render(msg)
}

// Help renders key bindings as "key desc" pairs.
func Help(bindings [][2]string) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, keyStyle.Render(b[0])+" "+helpDescStyle.Render(b[1]))
	}
	return strings.Join(parts, "  ")
}
