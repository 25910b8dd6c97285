package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/overlap/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/overlap/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/overlap/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/overlap/internal/core/domain"
)

const (
	maxBarWidth  = 60
	shownMatches = 5
)

// Request is the check the app runs.
type Request struct {
	Text      string
	N         int
	Threshold float64
}

// App follows a progressive check: a progress bar fed by the event stream
// and the best matches found so far. It implements tea.Model.
type App struct {
	ports  *Ports
	req    Request
	ctx    context.Context
	cancel context.CancelFunc

	styles  *styles.Styles
	keys    *keymap.KeyMap
	help    help.Model
	bar     progress.Model
	spinner spinner.Model

	events       <-chan domain.CheckEvent
	status       domain.CheckStatus
	total        int
	percent      int
	matches      []domain.SimilarityResult
	totalResults int
	err          error
	done         bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the check view for req.
func NewApp(ports *Ports, req Request) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	theme := s.Theme()
	a := &App{
		ports:  ports,
		req:    req,
		styles: s,
		keys:   keymap.DefaultKeyMap(),
		help:   help.New(),
		bar: progress.New(
			progress.WithGradient(string(theme.Primary), string(theme.Secondary)),
			progress.WithWidth(maxBarWidth),
		),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(s.Subtitle),
		),
	}
	a.WithContext(context.Background())
	return a, nil
}

// WithContext binds the check to ctx. Quitting cancels it.
func (a *App) WithContext(ctx context.Context) *App {
	if a.cancel != nil {
		a.cancel()
	}
	a.ctx, a.cancel = context.WithCancel(ctx)
	return a
}

// Init starts the check.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("overlap - check"),
		a.spinner.Tick,
		a.start(),
	)
}

func (a *App) start() tea.Cmd {
	ctx, req, engine := a.ctx, a.req, a.ports.Engine
	return func() tea.Msg {
		events, err := engine.ProgressiveScore(ctx, req.Text, req.N, req.Threshold)
		return messages.CheckStarted{Events: events, Err: err}
	}
}

// waitForEvent reads the next record, or reports the closed stream.
func waitForEvent(events <-chan domain.CheckEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return messages.StreamClosed{}
		}
		return messages.CheckEvent{Event: ev}
	}
}

// Update handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.bar.Width = min(maxBarWidth, max(10, msg.Width-4))
		a.help.Width = msg.Width
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.Quit) {
			a.cancel()
			return a, tea.Quit
		}
		return a, nil

	case messages.CheckStarted:
		if msg.Err != nil {
			a.err = msg.Err
			a.status = domain.CheckFailed
			a.done = true
			return a, tea.Quit
		}
		a.events = msg.Events
		return a, waitForEvent(a.events)

	case messages.CheckEvent:
		a.apply(msg.Event)
		return a, waitForEvent(a.events)

	case messages.StreamClosed:
		a.done = true
		if !a.status.IsTerminal() && a.err == nil {
			a.err = domain.ErrStreamInterrupted
		}
		a.cancel()
		return a, tea.Quit

	case spinner.TickMsg:
		if a.done {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) apply(ev domain.CheckEvent) {
	a.status = ev.Status
	switch ev.Status {
	case domain.CheckStarted:
		a.total = ev.Total
	case domain.CheckProgress:
		a.percent = ev.Progress
		if ev.Result != nil {
			a.matches = append(a.matches, *ev.Result)
			sort.SliceStable(a.matches, func(i, j int) bool {
				return a.matches[i].Similarity > a.matches[j].Similarity
			})
		}
	case domain.CheckCompleted:
		a.percent = 100
		a.totalResults = ev.TotalResults
	case domain.CheckFailed:
		a.err = ev.Err
		if a.err == nil {
			a.err = errors.New("check failed")
		}
	}
}

// View renders the check.
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("overlap"))
	b.WriteString(a.styles.Muted.Render(fmt.Sprintf("  n=%d threshold=%.2f", a.req.N, a.req.Threshold)))
	b.WriteString("\n\n")

	switch {
	case a.err != nil:
		b.WriteString(a.styles.Error.Render("✗ " + a.err.Error()))
	case a.status == domain.CheckCompleted:
		b.WriteString(a.styles.Success.Render(
			fmt.Sprintf("✓ Checked %d documents, %d matches", a.total, a.totalResults)))
	case a.total > 0:
		b.WriteString(a.spinner.View() + a.styles.Normal.Render(fmt.Sprintf(" Checking %d documents", a.total)))
	default:
		b.WriteString(a.spinner.View() + a.styles.Normal.Render(" Loading corpus"))
	}
	b.WriteString("\n")
	b.WriteString(a.bar.ViewAs(float64(a.percent) / 100))
	b.WriteString("\n")

	if len(a.matches) > 0 {
		b.WriteString("\n")
		b.WriteString(a.styles.Subtitle.Render("Top matches"))
		b.WriteString("\n")
		for _, m := range a.matches[:min(shownMatches, len(a.matches))] {
			title := m.DocTitle
			if title == "" {
				title = m.DocID
			}
			line := fmt.Sprintf("  %s  %s", a.styles.Score(m.Similarity).Render(fmt.Sprintf("%5.1f%%", m.Similarity*100)), title)
			if m.DocAuthor != "" {
				line += a.styles.Muted.Render(" by " + m.DocAuthor)
			}
			b.WriteString(line + "\n")
		}
	}

	if !a.done {
		b.WriteString("\n")
		b.WriteString(a.help.ShortHelpView(a.keys.ShortHelp()))
	}
	b.WriteString("\n")
	return b.String()
}

// Status returns the last check state seen.
func (a *App) Status() domain.CheckStatus {
	return a.status
}

// Percent returns the last reported progress.
func (a *App) Percent() int {
	return a.percent
}

// Matches returns the matches found so far, highest similarity first.
func (a *App) Matches() []domain.SimilarityResult {
	return a.matches
}

// Err returns the failure that ended the check, if any.
func (a *App) Err() error {
	return a.err
}

// Done reports whether the stream has ended.
func (a *App) Done() bool {
	return a.done
}
