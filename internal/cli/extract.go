package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"instafetch/internal/config"
	"instafetch/internal/instagram"
)

var (
	extractInfoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	extractDoneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	extractErrStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	extractHintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("248"))
)

// extractState holds extraction state shared between the worker goroutine and
// the TUI loop.
type extractState struct {
	mu       sync.RWMutex
	done     bool
	result   instagram.Result
	strategy string
	failMsg  string
}

func (s *extractState) setDone(result instagram.Result, strategy string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = true
	s.result = result
	s.strategy = strategy
}

func (s *extractState) setFailed(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = true
	s.failMsg = msg
}

func (s *extractState) get() (bool, string, instagram.Result, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.done, s.failMsg, s.result, s.strategy
}

type extractTickMsg time.Time

type extractModel struct {
	spinner spinner.Model
	url     string
	state   *extractState
}

func newExtractModel(url string, state *extractState) extractModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return extractModel{spinner: s, url: url, state: state}
}

func extractTickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return extractTickMsg(t)
	})
}

func (m extractModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, extractTickCmd())
}

func (m extractModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case extractTickMsg:
		done, _, _, _ := m.state.get()
		if done {
			return m, tea.Quit
		}
		return m, extractTickCmd()
	}

	return m, nil
}

func (m extractModel) View() string {
	done, failMsg, result, strategy := m.state.get()

	if failMsg != "" {
		return fmt.Sprintf("\n  %s %s\n\n",
			extractErrStyle.Render("✗"),
			failMsg,
		)
	}

	if done {
		var s string
		s += fmt.Sprintf("\n  %s Resolved via %s\n\n", extractDoneStyle.Render("✓"), strategy)
		s += fmt.Sprintf("  URL:      %s\n", extractInfoStyle.Render(result.URL))
		if result.Thumbnail != "" {
			s += fmt.Sprintf("  Preview:  %s\n", extractHintStyle.Render(result.Thumbnail))
		}
		s += fmt.Sprintf("  Filename: %s\n", result.Filename)

		if len(result.Items) > 0 {
			s += fmt.Sprintf("\n  Carousel (%d):\n", len(result.Items))
			for i, item := range result.Items {
				s += fmt.Sprintf("    • [%d] %s %s\n", i+1, item.Type, extractInfoStyle.Render(item.URL))
			}
		}
		s += "\n"
		return s
	}

	return fmt.Sprintf("\n  %s Resolving: %s\n\n",
		m.spinner.View(),
		extractInfoStyle.Render(m.url),
	)
}

// runExtract classifies the URL, runs the pipeline, and prints the outcome.
func runExtract(cfg *config.Config, rawURL string) error {
	req, err := instagram.ParseRequest(rawURL, tool)
	if err != nil {
		return err
	}

	logger := newLogger(verbose)
	pipeline := newPipeline(cfg, logger)

	if jsonOut {
		out := pipeline.Run(context.Background(), req)
		if out.Empty() {
			return fmt.Errorf("%s", instagram.MessageFor(tool))
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(instagram.Assemble(out.Items, time.Now()))
	}

	state := &extractState{}
	go func() {
		out := pipeline.Run(context.Background(), req)
		if out.Empty() {
			state.setFailed(instagram.MessageFor(tool))
			return
		}
		state.setDone(instagram.Assemble(out.Items, time.Now()), out.Strategy)
	}()

	p := tea.NewProgram(newExtractModel(rawURL, state))
	if _, err := p.Run(); err != nil {
		return err
	}

	done, failMsg, _, _ := state.get()
	if failMsg != "" {
		return fmt.Errorf("%s", failMsg)
	}
	if !done {
		color.Yellow("extraction cancelled")
		return nil
	}
	return nil
}
