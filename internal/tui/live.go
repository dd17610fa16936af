package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/ljsim/internal/dynamo"
	"github.com/san-kum/ljsim/internal/sim"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

const historyLen = 120

type model struct {
	params dynamo.Params
	events <-chan dynamo.Event
	feed   *Feed

	stage     dynamo.Stage
	step      int
	total     int
	lambdas   []float64
	kinetic   []float64
	potential []float64
	message   string

	done     bool
	quitting bool
	err      error
	width    int
}

func newModel(params dynamo.Params, feed *Feed) model {
	return model{
		params: params,
		events: feed.Events(),
		feed:   feed,
		stage:  dynamo.StageInitialize,
		width:  80,
	}
}

type eventMsg dynamo.Event

type closedMsg struct{ err error }

func (m model) wait() tea.Cmd {
	return func() tea.Msg {
		e, ok := <-m.events
		if !ok {
			return closedMsg{err: m.feed.Err()}
		}
		return eventMsg(e)
	}
}

func (m model) Init() tea.Cmd { return m.wait() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case eventMsg:
		m.apply(dynamo.Event(msg))
		if m.stage == dynamo.StageComplete {
			m.done = true
		}
		return m, m.wait()
	case closedMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) apply(e dynamo.Event) {
	if e.Stage != m.stage {
		m.stage = e.Stage
		m.step = 0
	}
	m.step = e.Step
	m.total = e.Total
	if e.Message != "" {
		m.message = e.Message
	}

	switch e.Stage {
	case dynamo.StageEquilibrate:
		m.lambdas = appendCapped(m.lambdas, e.Lambda)
	case dynamo.StageProduce:
		m.kinetic = appendCapped(m.kinetic, e.Kinetic)
		m.potential = appendCapped(m.potential, e.Potential)
	}
}

func appendCapped(xs []float64, v float64) []float64 {
	xs = append(xs, v)
	if len(xs) > historyLen {
		xs = xs[len(xs)-historyLen:]
	}
	return xs
}

func (m model) View() string {
	var b strings.Builder

	statusIcon := green.Render("●")
	statusText := green.Render(string(m.stage))
	switch {
	case m.err != nil:
		statusIcon = red.Render("✕")
		statusText = red.Render(m.err.Error())
	case m.done:
		statusIcon = cyan.Render("✓")
	case m.stage == dynamo.StageEquilibrate:
		statusIcon = yellow.Render("○")
		statusText = yellow.Render(string(m.stage))
	}

	p := m.params
	b.WriteString(fmt.Sprintf("\n   %s %s  %s\n",
		statusIcon, cyan.Render("ljsim"), statusText))
	b.WriteString("   " + dim.Render(fmt.Sprintf("N=%d  ρ=%.3f  T=%.3f  Δt=%g  steps=%d",
		p.Particles, p.Density, p.Temperature, p.TimeStep, p.Steps())) + "\n\n")

	barWidth := 36
	progress := 0.0
	if m.stage == dynamo.StageProduce && m.total > 0 {
		progress = float64(m.step) / float64(m.total)
	}
	if m.stage == dynamo.StageAnalyze || m.done {
		progress = 1
	}
	filled := int(progress * float64(barWidth))
	bar := cyan.Render(strings.Repeat("━", filled)) + dimmer.Render(strings.Repeat("─", barWidth-filled))
	b.WriteString(fmt.Sprintf("   %s %s\n\n", bar, dim.Render(fmt.Sprintf("%d/%d", m.step, m.total))))

	if len(m.lambdas) > 0 {
		last := m.lambdas[len(m.lambdas)-1]
		b.WriteString(fmt.Sprintf("   %s %s  %s\n",
			dim.Render("λ"), magenta.Render(sparkline(m.lambdas, 24)),
			white.Render(fmt.Sprintf("%.4f (%d iterations)", last, len(m.lambdas)))))
	}
	if len(m.kinetic) > 0 {
		ke := m.kinetic[len(m.kinetic)-1]
		pe := m.potential[len(m.potential)-1]
		b.WriteString(fmt.Sprintf("   %s %s  %s\n", green.Render("KE"), green.Render(sparkline(m.kinetic, 24)), white.Render(fmt.Sprintf("%.3f", ke))))
		b.WriteString(fmt.Sprintf("   %s %s  %s\n", yellow.Render("PE"), yellow.Render(sparkline(m.potential, 24)), white.Render(fmt.Sprintf("%.3f", pe))))
		b.WriteString(fmt.Sprintf("   %s %s\n", dim.Render("E "), white.Render(fmt.Sprintf("%.4f", ke+pe))))
	}
	if m.message != "" {
		b.WriteString("\n   " + dim.Render(m.message) + "\n")
	}

	b.WriteString("\n" + dim.Render("   q quit") + "\n")
	return b.String()
}

func sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	rang := maxVal - minVal
	if rang == 0 {
		rang = 1
	}
	step := len(data) / width
	if step < 1 {
		step = 1
	}
	var sb strings.Builder
	for i := 0; i < width && i*step < len(data); i++ {
		v := data[i*step]
		idx := int((v - minVal) / rang * 7)
		if idx > 7 {
			idx = 7
		}
		if idx < 0 {
			idx = 0
		}
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}

// RunLive runs s while showing its progress. Quitting the view cancels the
// run.
func RunLive(ctx context.Context, s *sim.Simulator, opts ...tea.ProgramOption) (*sim.Result, error) {
	feed := NewFeed(256)
	s.AddObserver(feed)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var result *sim.Result
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		var err error
		result, err = s.Run(ctx)
		feed.Close(err)
	}()

	p := tea.NewProgram(newModel(s.Params(), feed), opts...)
	_, uiErr := p.Run()

	cancel()
	for range feed.Events() {
	}
	<-finished

	if uiErr != nil {
		return nil, uiErr
	}
	if err := feed.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
