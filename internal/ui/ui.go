package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/spotlist/internal/app/builder"
	"github.com/osa030/spotlist/internal/app/suggest"
	"github.com/osa030/spotlist/internal/domain/selection"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	EditView ViewState = iota
	BuildingView
	ResultView
)

// focus is the edit view element receiving keys.
type focus int

const (
	focusName focus = iota
	focusArtist
	focusList
	focusSuggestions
)

// PlaylistBuilder creates a playlist from the selection list.
type PlaylistBuilder interface {
	Build(ctx context.Context, name string, selections []selection.ArtistRequest) (*builder.Result, error)
}

// Suggester finds artists similar to a seed artist.
type Suggester interface {
	Suggest(ctx context.Context, artistName string, limit int, exclude []string) ([]suggest.Suggestion, error)
}

// Options configures the TUI.
type Options struct {
	DefaultTrackCount int
	SuggestLimit      int
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	builder   PlaylistBuilder
	suggester Suggester
	opts      Options

	list        *selection.List
	nameInput   textinput.Model
	artistInput textinput.Model
	focus       focus
	cursor      int

	suggestSeed    string
	suggestions    []suggest.Suggestion
	suggestCursor  int
	suggestLoading bool

	spinner spinner.Model
	status  string
	result  *builder.Result
	err     error
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model. suggester may be nil.
func NewModel(ctx context.Context, b PlaylistBuilder, suggester Suggester, opts Options) *Model {
	if opts.SuggestLimit <= 0 {
		opts.SuggestLimit = 5
	}

	name := textinput.New()
	name.Placeholder = "My playlist"
	name.Prompt = "> "
	name.CharLimit = 100

	artist := textinput.New()
	artist.Placeholder = "Artist name"
	artist.Prompt = "> "
	artist.CharLimit = 100

	m := &Model{
		ctx:         ctx,
		view:        EditView,
		builder:     b,
		suggester:   suggester,
		opts:        opts,
		list:        selection.NewList(opts.DefaultTrackCount),
		nameInput:   name,
		artistInput: artist,
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.selected)),
		help:        help.New(),
		keys:        newKeyMap(),
	}
	m.setFocus(focusName)
	return m
}

// Init starts the cursor blink of the focused input.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		switch m.view {
		case EditView:
			return m.handleEditKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}
		return m, nil

	case spinner.TickMsg:
		if m.view != BuildingView && !m.suggestLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case buildDoneMsg:
		if errors.Is(msg.err, builder.ErrValidation) {
			m.view = EditView
			m.status = msg.err.Error()
			return m, nil
		}
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		return m, nil

	case suggestionsMsg:
		m.suggestLoading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Suggestions failed: %v", msg.err)
			return m, nil
		}
		m.suggestSeed = msg.seed
		m.suggestions = msg.suggestions
		m.suggestCursor = 0
		if len(msg.suggestions) == 0 {
			m.status = fmt.Sprintf("No similar artists found for %s", msg.seed)
			if m.focus == focusSuggestions {
				return m, m.setFocus(focusArtist)
			}
			return m, nil
		}
		m.status = ""
		return m, m.setFocus(focusSuggestions)
	}

	return m.updateInputs(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case EditView:
		return m.renderEdit()
	case BuildingView:
		return m.renderBuilding()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.submit):
		return m, m.startBuild()
	case key.Matches(msg, m.keys.clear):
		m.list.Clear()
		m.cursor = 0
		return m, nil
	case key.Matches(msg, m.keys.suggest):
		return m, m.startSuggest()
	case key.Matches(msg, m.keys.next):
		return m, m.setFocus(m.nextFocus(1))
	case key.Matches(msg, m.keys.prev):
		return m, m.setFocus(m.nextFocus(-1))
	case key.Matches(msg, m.keys.countUp):
		m.list.SetNextCount(m.list.NextCount() + 1)
		return m, nil
	case key.Matches(msg, m.keys.countDown):
		m.list.SetNextCount(m.list.NextCount() - 1)
		return m, nil
	}

	switch m.focus {
	case focusName:
		if key.Matches(msg, m.keys.add) {
			return m, m.setFocus(focusArtist)
		}
	case focusArtist:
		if key.Matches(msg, m.keys.add) {
			m.addArtist(m.artistInput.Value())
			m.artistInput.Reset()
			return m, nil
		}
	case focusList:
		switch {
		case key.Matches(msg, m.keys.up):
			m.cursor = max(0, m.cursor-1)
		case key.Matches(msg, m.keys.down):
			m.cursor = max(0, min(m.list.Len()-1, m.cursor+1))
		case key.Matches(msg, m.keys.remove):
			m.list.Remove(m.cursor)
			m.cursor = max(0, min(m.cursor, m.list.Len()-1))
		}
		return m, nil
	case focusSuggestions:
		switch {
		case key.Matches(msg, m.keys.up):
			m.suggestCursor = max(0, m.suggestCursor-1)
		case key.Matches(msg, m.keys.down):
			m.suggestCursor = max(0, min(len(m.suggestions)-1, m.suggestCursor+1))
		case key.Matches(msg, m.keys.add):
			m.addSuggestion()
		}
		return m, nil
	}

	return m.updateInputs(msg)
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "q":
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = EditView
		m.result = nil
		m.err = nil
		return m, m.setFocus(m.focus)
	}
	return m, nil
}

// updateInputs forwards msg to the focused text input.
func (m *Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusName:
		m.nameInput, cmd = m.nameInput.Update(msg)
	case focusArtist:
		m.artistInput, cmd = m.artistInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) setFocus(f focus) tea.Cmd {
	m.focus = f
	m.nameInput.Blur()
	m.artistInput.Blur()
	switch f {
	case focusName:
		return m.nameInput.Focus()
	case focusArtist:
		return m.artistInput.Focus()
	}
	return nil
}

// nextFocus cycles through the edit view elements, skipping suggestions when there are none.
func (m *Model) nextFocus(step int) focus {
	n := 3
	if len(m.suggestions) > 0 {
		n = 4
	}
	return focus((int(m.focus) + step + n) % n)
}

func (m *Model) addArtist(name string) {
	if m.list.Add(name, m.list.NextCount()) {
		m.status = ""
		zlog.Debug().Msgf("artist added: name=%q size=%d", strings.TrimSpace(name), m.list.Len())
	}
}

func (m *Model) addSuggestion() {
	if len(m.suggestions) == 0 {
		return
	}
	s := m.suggestions[m.suggestCursor]
	m.addArtist(s.Name)
	m.suggestions = append(m.suggestions[:m.suggestCursor], m.suggestions[m.suggestCursor+1:]...)
	if len(m.suggestions) == 0 {
		m.suggestCursor = 0
		m.setFocus(focusArtist)
		return
	}
	m.suggestCursor = min(m.suggestCursor, len(m.suggestions)-1)
}

func (m *Model) startBuild() tea.Cmd {
	m.view = BuildingView
	m.status = ""
	name := m.nameInput.Value()
	selections := m.list.Snapshot()
	zlog.Info().Msgf("build requested: name=%q artists=%d", strings.TrimSpace(name), len(selections))

	build := func() tea.Msg {
		result, err := m.builder.Build(m.ctx, name, selections)
		return buildDoneMsg{result: result, err: err}
	}
	return tea.Batch(m.spinner.Tick, build)
}

// startSuggest looks up artists similar to the typed artist, or to the selected
// list entry when the list has focus.
func (m *Model) startSuggest() tea.Cmd {
	if m.suggester == nil {
		m.status = "Suggestions are not configured"
		return nil
	}
	if m.suggestLoading {
		return nil
	}

	seed := strings.TrimSpace(m.artistInput.Value())
	if m.focus == focusList && m.list.Len() > 0 {
		seed = m.list.Snapshot()[m.cursor].ArtistName
	}
	if seed == "" {
		m.status = "Enter an artist to find similar artists"
		return nil
	}

	m.suggestLoading = true
	m.status = ""
	limit := m.opts.SuggestLimit
	exclude := m.list.Names()

	lookup := func() tea.Msg {
		suggestions, err := m.suggester.Suggest(m.ctx, seed, limit, exclude)
		return suggestionsMsg{seed: seed, suggestions: suggestions, err: err}
	}
	return tea.Batch(m.spinner.Tick, lookup)
}

func (m *Model) renderEdit() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("spotlist"))
	b.WriteString("\n")

	b.WriteString(m.label("Playlist name", focusName))
	b.WriteString("\n")
	b.WriteString(m.nameInput.View())
	b.WriteString("\n\n")

	b.WriteString(m.label("Artist", focusArtist))
	b.WriteString(fmt.Sprintf("   tracks: ‹ %d ›", m.list.NextCount()))
	b.WriteString("\n")
	b.WriteString(m.artistInput.View())
	b.WriteString("\n\n")

	b.WriteString(m.label(fmt.Sprintf("Selected artists (%d)", m.list.Len()), focusList))
	b.WriteString("\n")
	if m.list.Len() == 0 {
		b.WriteString(styles.help.Render("  no artists yet"))
		b.WriteString("\n")
	}
	for i, req := range m.list.Snapshot() {
		line := fmt.Sprintf("%d. %s", i+1, req)
		if m.focus == focusList && i == m.cursor {
			b.WriteString(styles.selected.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if m.suggestLoading {
		b.WriteString("\n")
		b.WriteString(m.spinner.View() + " Looking for similar artists...")
		b.WriteString("\n")
	} else if len(m.suggestions) > 0 {
		b.WriteString("\n")
		b.WriteString(m.label("Similar to "+m.suggestSeed, focusSuggestions))
		b.WriteString("\n")
		for i, s := range m.suggestions {
			line := fmt.Sprintf("%s %s", s.Name, styles.help.Render("("+s.Source+")"))
			if m.focus == focusSuggestions && i == m.suggestCursor {
				b.WriteString(styles.selected.Render("> ") + line)
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(styles.warn.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	return b.String()
}

func (m *Model) label(text string, f focus) string {
	if m.focus == f {
		return styles.selected.Render(text)
	}
	return styles.label.Render(text)
}

func (m *Model) renderBuilding() string {
	title := styles.title.Render("Creating playlist")
	return fmt.Sprintf("%s\n\n%s Resolving %d artists...", title, m.spinner.View(), m.list.Len())
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView([]key.Binding{
		m.keys.back,
		key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	})

	if m.err != nil {
		msg := styles.err.Render(fmt.Sprintf("Failed to create playlist: %v", m.err))
		if hint := errors.FlattenHints(m.err); hint != "" {
			msg += "\n\n" + styles.warn.Render(hint)
		}
		return fmt.Sprintf("%s\n\n%s", msg, helpView)
	}

	if m.result == nil {
		return styles.err.Render("No result available") + "\n\n" + helpView
	}

	pl := m.result.Playlist
	title := styles.ok.Render(fmt.Sprintf("✓ Playlist %q created successfully!", pl.Name))
	info := fmt.Sprintf("\n%s\nTracks: %d (%s)", pl.URL, len(pl.Tracks), pl.TotalDuration().Round(time.Second))

	var skipped string
	if s := m.result.Skipped(); len(s) > 0 {
		skipped = "\n\n" + styles.warn.Render(fmt.Sprintf("Skipped %d artists not found:", len(s)))
		for _, req := range s {
			skipped += fmt.Sprintf("\n  • %s", req.ArtistName)
		}
	}

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, skipped, helpView)
}
