// Package tui is the interactive swipe screen. Dragging the card with the
// mouse feeds the gesture recognizer; arrow keys act as the vote buttons.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dogfinder/dogfinder/catalog"
	"github.com/dogfinder/dogfinder/config"
	"github.com/dogfinder/dogfinder/gesture"
	"github.com/dogfinder/dogfinder/navigation"
	"github.com/dogfinder/dogfinder/render"
	"github.com/dogfinder/dogfinder/types"
)

// Terminal cells are scaled to approximate pixels so that the recognizer
// threshold means roughly the same drag distance as on a touch screen.
const (
	CellWidth  = 8
	CellHeight = 16
)

type screen int

const (
	screenLoading screen = iota
	screenCards
	screenDetails
	screenError
)

// LoadFunc fetches the breed list and restores progress.
type LoadFunc func(ctx context.Context) (*navigation.Navigator, error)

// BreedFunc fetches full details for one breed.
type BreedFunc func(ctx context.Context, id int) (types.Breed, error)

// Options configures the model.
type Options struct {
	Load  LoadFunc
	Breed BreedFunc
	// Reload, when set, drops cached breeds before a retry.
	Reload    func()
	Threshold float64
	Renderer  *render.Renderer
}

type loadedMsg struct {
	nav *navigation.Navigator
	err error
}

type votedMsg struct {
	result *navigation.VoteResult
	err    error
}

type detailsMsg struct {
	breed types.Breed
	err   error
}

type movedMsg struct {
	err error
}

// swipe is the vote reported by the recognizer callbacks during End.
type swipe struct {
	value types.VoteValue
	ok    bool
}

// Model is the bubbletea model for the swipe screen.
type Model struct {
	ctx  context.Context
	opts Options
	keys keyMap

	screen     screen
	nav        *navigation.Navigator
	recognizer *gesture.Recognizer
	swiped     *swipe
	spinner    spinner.Model

	details *types.Breed
	err     error
	status  string
	voting  bool
	width   int
	height  int
}

// New creates the model. Nothing is fetched until Init runs.
func New(ctx context.Context, opts Options) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	swiped := &swipe{}
	gestureOpts := append([]gesture.Option{gesture.WithThreshold(opts.Threshold)},
		navigation.Handlers(func(v types.VoteValue) { *swiped = swipe{value: v, ok: true} })...)

	return Model{
		ctx:        ctx,
		opts:       opts,
		keys:       newKeyMap(),
		screen:     screenLoading,
		recognizer: gesture.New(gestureOpts...),
		swiped:     swiped,
		spinner:    sp,
	}
}

// Run starts a full-screen program with mouse motion reporting.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(ctx, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m Model) load() tea.Cmd {
	load := m.opts.Load
	ctx := m.ctx
	return func() tea.Msg {
		nav, err := load(ctx)
		return loadedMsg{nav: nav, err: err}
	}
}

func (m Model) vote(value types.VoteValue) tea.Cmd {
	nav := m.nav
	ctx := m.ctx
	return func() tea.Msg {
		result, err := nav.Vote(ctx, value)
		return votedMsg{result: result, err: err}
	}
}

func (m Model) fetchDetails(breed types.Breed) tea.Cmd {
	if m.opts.Breed == nil {
		return func() tea.Msg { return detailsMsg{breed: breed} }
	}
	fetch := m.opts.Breed
	ctx := m.ctx
	return func() tea.Msg {
		b, err := fetch(ctx, breed.ID)
		return detailsMsg{breed: b, err: err}
	}
}

func (m Model) move(forward bool) tea.Cmd {
	nav := m.nav
	ctx := m.ctx
	return func() tea.Msg {
		var err error
		if forward {
			_, err = nav.Next(ctx)
		} else {
			_, err = nav.Previous(ctx)
		}
		return movedMsg{err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if m.screen != screenLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		if msg.err != nil {
			m.screen = screenError
			m.err = msg.err
			return m, nil
		}
		m.nav = msg.nav
		m.screen = screenCards
		m.err = nil
		return m, nil

	case votedMsg:
		m.voting = false
		switch {
		case msg.err != nil:
			m.status = msg.err.Error()
		case !msg.result.Submitted():
			m.status = fmt.Sprintf("Saved %s for %s locally, submit failed: %s", msg.result.Vote, msg.result.BreedName, msg.result.Error)
		default:
			m.status = fmt.Sprintf("%s: %s", msg.result.BreedName, msg.result.Vote)
		}
		return m, nil

	case detailsMsg:
		if m.screen != screenDetails {
			return m, nil
		}
		if msg.err != nil {
			m.status = "Error loading breed details. Please try again."
			m.screen = screenCards
			return m, nil
		}
		b := msg.breed
		m.details = &b
		return m, nil

	case movedMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	switch m.screen {
	case screenError:
		if key.Matches(msg, m.keys.Retry) {
			m.screen = screenLoading
			m.err = nil
			if m.opts.Reload != nil {
				m.opts.Reload()
			}
			return m, tea.Batch(m.spinner.Tick, m.load())
		}

	case screenDetails:
		if key.Matches(msg, m.keys.Back) {
			m.screen = screenCards
			m.details = nil
		}

	case screenCards:
		switch {
		case key.Matches(msg, m.keys.Nope):
			return m.startVote(types.Dislike)
		case key.Matches(msg, m.keys.Like):
			return m.startVote(types.Like)
		case key.Matches(msg, m.keys.Super):
			return m.startVote(types.SuperLike)
		case key.Matches(msg, m.keys.Next):
			return m, m.move(true)
		case key.Matches(msg, m.keys.Prev):
			return m, m.move(false)
		case key.Matches(msg, m.keys.Details):
			return m.openDetails()
		}
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.screen != screenCards || (msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionRelease) {
		return m, nil
	}

	x := float64(msg.X * CellWidth)
	y := float64(msg.Y * CellHeight)

	switch msg.Action {
	case tea.MouseActionPress:
		m.recognizer.Start(x, y)
	case tea.MouseActionMotion:
		m.recognizer.Move(x, y)
	case tea.MouseActionRelease:
		if !m.recognizer.Active() {
			return m, nil
		}
		m.recognizer.Move(x, y)
		s := m.recognizer.Session()
		*m.swiped = swipe{}
		m.recognizer.End()
		if m.swiped.ok {
			return m.startVote(m.swiped.value)
		}
		// a release without any travel is a click on the card
		if s.OffsetX == 0 && s.OffsetY == 0 {
			return m.openDetails()
		}
	}
	return m, nil
}

func (m Model) startVote(value types.VoteValue) (tea.Model, tea.Cmd) {
	if m.voting || m.nav == nil {
		return m, nil
	}
	if _, ok := m.nav.Current(); !ok {
		return m, nil
	}
	m.voting = true
	m.status = ""
	return m, m.vote(value)
}

func (m Model) openDetails() (tea.Model, tea.Cmd) {
	breed, ok := m.nav.Current()
	if !ok {
		return m, nil
	}
	m.screen = screenDetails
	m.details = nil
	return m, m.fetchDetails(breed)
}

func (m Model) View() string {
	switch m.screen {
	case screenLoading:
		return m.spinner.View() + " " + render.Loading("breeds")

	case screenError:
		headline := "Error loading breeds. Please try again."
		if errors.Is(m.err, config.ErrNoAPIKey) || catalog.IsUnauthorized(m.err) {
			headline = "Error loading breeds. Please check your API key and try again."
		}
		return lipgloss.JoinVertical(lipgloss.Left,
			render.Error(headline),
			render.Error(m.err.Error()),
			"",
			render.Help(helpPairs(m.keys.Retry, m.keys.Quit)),
		)

	case screenDetails:
		body := render.Loading("breed details")
		if m.details != nil {
			if m.opts.Renderer != nil {
				body = m.opts.Renderer.Details(*m.details)
			} else {
				body = render.DetailsMarkdown(*m.details)
			}
		}
		return lipgloss.JoinVertical(lipgloss.Left,
			body,
			render.Help(helpPairs(m.keys.Back, m.keys.Quit)),
		)
	}

	breed, ok := m.nav.Current()
	if !ok {
		return lipgloss.JoinVertical(lipgloss.Left,
			render.Empty(),
			"",
			render.Help(helpPairs(m.keys.Prev, m.keys.Quit)),
		)
	}

	view := render.CardView{
		Breed:     breed,
		Index:     m.nav.Index(),
		Total:     m.nav.Total(),
		Session:   m.recognizer.Session(),
		Threshold: m.recognizer.Threshold(),
	}
	if v, ok := m.nav.VoteFor(breed.ID); ok {
		view.Vote = &v
	}
	if m.width > 0 && m.width < render.DefaultCardWidth+8 {
		view.Width = m.width - 8
	}

	parts := []string{render.Card(view), ""}
	if m.status != "" {
		parts = append(parts, render.Status(m.status))
	}
	parts = append(parts, render.Help(helpPairs(
		m.keys.Nope, m.keys.Super, m.keys.Like, m.keys.Details, m.keys.Next, m.keys.Prev, m.keys.Quit,
	)))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
