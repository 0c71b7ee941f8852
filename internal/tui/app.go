// Package tui is the terminal front end: a ranked list of who owes what,
// with a free-text entry line feeding the parser.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stonezone/lendshark/internal/ledger"
	"github.com/stonezone/lendshark/internal/service"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	owedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	owingStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("179"))
	faintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")).Padding(0, 1)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	entryBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

type keyMap struct {
	Entry  key.Binding
	Close  key.Binding
	Submit key.Binding
	UpDown key.Binding
	Quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Entry:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add entry")),
		Close:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		UpDown: key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "navigate")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type summariesMsg struct {
	summaries []ledger.DebtorSummary
	asOf      time.Time
	err       error
}

type submitMsg struct {
	result service.SubmitResult
	err    error
}

// App is the bubbletea model.
type App struct {
	ctx      context.Context
	svc      *service.BookService
	keys     keyMap
	currency string

	summaries []ledger.DebtorSummary
	asOf      time.Time
	cursor    int
	entering  bool
	input     textinput.Model
	status    string
	errLine   string
	width     int
}

// New builds the app around a BookService.
func New(ctx context.Context, svc *service.BookService, currency string) *App {
	ti := textinput.New()
	ti.Placeholder = `lent 50 to john next week // or: settle with john`
	ti.CharLimit = 500
	return &App{
		ctx:      ctx,
		svc:      svc,
		keys:     newKeyMap(),
		currency: currency,
		input:    ti,
	}
}

func (a *App) Init() tea.Cmd {
	return a.loadSummaries()
}

func (a *App) loadSummaries() tea.Cmd {
	return func() tea.Msg {
		sums, asOf, err := a.svc.Summaries(a.ctx)
		return summariesMsg{summaries: sums, asOf: asOf, err: err}
	}
}

func (a *App) submit(raw string) tea.Cmd {
	return func() tea.Msg {
		res, err := a.svc.Submit(a.ctx, raw)
		return submitMsg{result: res, err: err}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		return a, nil

	case summariesMsg:
		if msg.err != nil {
			a.errLine = msg.err.Error()
			return a, nil
		}
		a.summaries = msg.summaries
		a.asOf = msg.asOf
		if a.cursor >= len(a.summaries) {
			a.cursor = 0
		}
		return a, nil

	case submitMsg:
		if msg.err != nil {
			a.errLine = msg.err.Error()
			return a, nil
		}
		a.errLine = ""
		a.status = describeResult(msg.result)
		a.entering = false
		a.input.Blur()
		a.input.SetValue("")
		return a, a.loadSummaries()

	case tea.KeyMsg:
		if a.entering {
			return a.updateEntry(msg)
		}
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, a.keys.Entry):
			a.entering = true
			a.errLine = ""
			a.input.Focus()
			return a, textinput.Blink
		case msg.String() == "up", msg.String() == "k":
			if a.cursor > 0 {
				a.cursor--
			}
		case msg.String() == "down", msg.String() == "j":
			if a.cursor < len(a.summaries)-1 {
				a.cursor++
			}
		case msg.String() == "r":
			return a, a.loadSummaries()
		}
	}
	return a, nil
}

func (a *App) updateEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Close):
		a.entering = false
		a.errLine = ""
		a.input.Blur()
		a.input.SetValue("")
		return a, nil
	case key.Matches(msg, a.keys.Submit):
		raw := strings.TrimSpace(a.input.Value())
		if raw == "" {
			return a, nil
		}
		return a, a.submit(raw)
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("LendShark") + "\n\n")

	if len(a.summaries) == 0 {
		b.WriteString(faintStyle.Render("nothing outstanding - press 'a' to add an entry") + "\n")
	}
	for i, s := range a.summaries {
		b.WriteString(a.renderSummary(i, s) + "\n")
	}

	if a.entering {
		b.WriteString("\n" + entryBoxStyle.Render(a.input.View()) + "\n")
	}
	if a.errLine != "" {
		b.WriteString("\n" + errorStyle.Render(a.errLine) + "\n")
	}
	if a.status != "" {
		b.WriteString("\n" + statusStyle.Render(a.status) + "\n")
	}
	help := "a add · r refresh · ↑/↓ navigate · q quit"
	if a.entering {
		help = "enter submit · esc cancel"
	}
	b.WriteString("\n" + faintStyle.Render(help) + "\n")
	return b.String()
}

func (a *App) renderSummary(i int, s ledger.DebtorSummary) string {
	prefix := "  "
	if i == a.cursor {
		prefix = cursorStyle.Render("> ")
	}

	total := s.TotalOwed()
	amountStr := a.currency + total.Abs().StringFixed(2)
	line := fmt.Sprintf("%-18s", s.Name)
	switch {
	case total.IsPositive():
		line += owedStyle.Render("owes you " + amountStr)
	case total.IsNegative():
		line += owingStyle.Render("you owe " + amountStr)
	default:
		line += faintStyle.Render("items only")
	}
	if s.AccruedInterest.IsPositive() {
		line += faintStyle.Render(fmt.Sprintf(" (incl. %s%s interest)", a.currency, s.AccruedInterest.StringFixed(2)))
	}
	if s.OverdueAt(a.asOf) {
		days := s.DaysOverdue
		for _, it := range s.Items {
			if d := it.DaysOverdue(a.asOf); d > days {
				days = d
			}
		}
		line += " " + overdueStyle.Render(fmt.Sprintf("OVERDUE %dd", days))
	}
	for _, it := range s.Items {
		holder := "they have"
		if !it.HeldByParty {
			holder = "you have"
		}
		line += "\n    " + faintStyle.Render(fmt.Sprintf("%s: %s", holder, it.Name))
	}
	return prefix + line
}

func describeResult(res service.SubmitResult) string {
	switch res.Action.(type) {
	case ledger.AddAction:
		return fmt.Sprintf("recorded entry for %s", res.Party)
	case ledger.SettleAction:
		return fmt.Sprintf("settled %d record(s) with %s", res.SettledCount, res.Party)
	}
	return ""
}
