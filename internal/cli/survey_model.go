package cli

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/alexanderramin/timesplit/internal/allocation"
	"github.com/alexanderramin/timesplit/internal/catalog"
	"github.com/alexanderramin/timesplit/internal/cli/formatter"
	"github.com/alexanderramin/timesplit/internal/contract"
	"github.com/alexanderramin/timesplit/internal/service"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	sliderStep    = 1.0
	sliderBigStep = 5.0
	sliderWidth   = 24
)

// surveyIdentity is who the slider form is answering for.
type surveyIdentity struct {
	Name string
	Team string
}

// submitResultMsg carries the outcome of the submission back into Update.
type submitResultMsg struct {
	resp *contract.SubmitResponse
	err  error
}

// surveyModel is the interactive slider form. It owns one allocation.Engine
// for the whole session.
type surveyModel struct {
	ctx      context.Context
	survey   service.SurveyService
	spec     catalog.RoleSpec
	identity surveyIdentity
	engine   *allocation.Engine

	keys   []string
	cursor int

	keymap surveyKeyMap
	help   help.Model

	input   textinput.Model
	editing bool

	status     string
	statusErr  bool
	submitting bool
	result     *contract.SubmitResponse
	quitting   bool
}

func newSurveyModel(ctx context.Context, survey service.SurveyService, spec catalog.RoleSpec, identity surveyIdentity, strategy allocation.Strategy) (*surveyModel, error) {
	engine, err := allocation.New(spec.Keys(), strategy, allocation.WithPreset(spec.Preset))
	if err != nil {
		return nil, fmt.Errorf("starting %s survey: %w", spec.Role, err)
	}

	ti := textinput.New()
	ti.Prompt = "value: "
	ti.Placeholder = "0-100"
	ti.CharLimit = 8
	ti.Width = 10

	return &surveyModel{
		ctx:      ctx,
		survey:   survey,
		spec:     spec,
		identity: identity,
		engine:   engine,
		keys:     engine.Keys(),
		keymap:   newSurveyKeyMap(strategy == allocation.LockAware),
		help:     help.New(),
		input:    ti,
	}, nil
}

func (m *surveyModel) Init() tea.Cmd { return nil }

func (m *surveyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case submitResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.result = msg.resp
		return m, tea.Quit

	case tea.KeyMsg:
		if m.editing {
			return m.updateInput(msg)
		}
		return m.updateSliders(msg)
	}
	return m, nil
}

func (m *surveyModel) updateSliders(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := m.keymap
	if m.submitting {
		return m, nil
	}

	switch {
	case key.Matches(msg, km.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, km.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, km.Down):
		if m.cursor < len(m.keys)-1 {
			m.cursor++
		}
	case key.Matches(msg, km.Dec):
		m.nudge(-sliderStep)
	case key.Matches(msg, km.Inc):
		m.nudge(sliderStep)
	case key.Matches(msg, km.DecBig):
		m.nudge(-sliderBigStep)
	case key.Matches(msg, km.IncBig):
		m.nudge(sliderBigStep)
	case key.Matches(msg, km.Enter):
		m.editing = true
		m.input.SetValue(inputValue(m.engine.Value(m.current())))
		m.input.CursorEnd()
		return m, m.input.Focus()
	case key.Matches(msg, km.Lock):
		locked, err := m.engine.ToggleLock(m.current())
		if err != nil {
			m.setError(err)
			break
		}
		if locked {
			m.setStatus(m.spec.FieldLabel(m.current()) + " locked")
		} else {
			m.setStatus(m.spec.FieldLabel(m.current()) + " unlocked")
		}
	case key.Matches(msg, km.AutoAdjust):
		if err := m.engine.AutoAdjust(); err != nil {
			m.setError(err)
			break
		}
		m.setStatus("Unlocked fields adjusted")
	case key.Matches(msg, km.Reset):
		m.engine.Reset()
		m.setStatus("Values reset")
	case key.Matches(msg, km.Submit):
		return m, m.submit()
	case key.Matches(msg, km.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *surveyModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeInput()
		return m, nil
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "enter":
		raw := strings.TrimSuffix(strings.TrimSpace(m.input.Value()), "%")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			m.setError(fmt.Errorf("%q is not a number", m.input.Value()))
			return m, nil
		}
		m.closeInput()
		m.edit(v)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *surveyModel) closeInput() {
	m.editing = false
	m.input.Blur()
	m.input.Reset()
}

// inputValue prefills the typed-value prompt with two decimals at most.
func inputValue(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func (m *surveyModel) current() string { return m.keys[m.cursor] }

func (m *surveyModel) nudge(delta float64) {
	m.edit(m.engine.Value(m.current()) + delta)
}

func (m *surveyModel) edit(v float64) {
	if err := m.engine.Edit(m.current(), v); err != nil {
		m.setError(err)
		return
	}
	m.status = ""
}

func (m *surveyModel) submit() tea.Cmd {
	if !m.engine.Complete() {
		b := m.engine.Balance()
		m.setError(fmt.Errorf("allocation must total 100%% before submitting (currently %s)", formatter.Percent(b.Total)))
		return nil
	}

	m.submitting = true
	m.setStatus("Submitting...")
	req := contract.SubmitRequest{
		Name:       m.identity.Name,
		Team:       m.identity.Team,
		Role:       m.spec.Role,
		Allocation: m.engine.State(),
	}
	ctx, survey := m.ctx, m.survey
	return func() tea.Msg {
		resp, err := survey.Submit(ctx, req)
		return submitResultMsg{resp: resp, err: err}
	}
}

func (m *surveyModel) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *surveyModel) setError(err error) {
	m.status = describeEngineError(err)
	m.statusErr = true
}

// describeEngineError puts the rejected-operation errors into the words the
// form shows next to the sliders.
func describeEngineError(err error) string {
	switch {
	case errors.Is(err, allocation.ErrOverLockedBudget):
		return "Cannot auto-adjust: " + err.Error() + ". Unlock or lower a locked field."
	case errors.Is(err, allocation.ErrNoAdjustableFields):
		return "Cannot auto-adjust: every field is locked."
	default:
		return err.Error()
	}
}

func (m *surveyModel) View() string {
	if m.quitting {
		return ""
	}
	if m.result != nil {
		return formatter.Bold(m.result.Message) + "\n"
	}

	var b strings.Builder
	b.WriteString(formatter.Header(m.spec.Label + " time allocation"))
	b.WriteString("\n")
	b.WriteString(formatter.Dim(fmt.Sprintf("%s · %s · %s", m.identity.Name, m.identity.Team, m.strategyLabel())))
	b.WriteString("\n\n")

	labelWidth := 0
	for _, k := range m.keys {
		labelWidth = max(labelWidth, lipgloss.Width(m.spec.FieldLabel(k)))
	}

	idx := 0
	for _, g := range m.spec.Groups {
		groupKeys := g.Keys()
		b.WriteString(formatter.StyleGroup.Render(g.Title))
		b.WriteString(formatter.Dim("  " + formatter.Percent(m.engine.Sum(groupKeys))))
		b.WriteString("\n")

		for _, k := range groupKeys {
			b.WriteString(m.renderRow(idx, k, labelWidth))
			b.WriteString("\n")
			idx++
		}
		b.WriteString("\n")
	}

	b.WriteString(formatter.BalanceLine(m.engine.Balance()))
	b.WriteString("\n")

	if m.editing {
		b.WriteString(m.input.View())
		b.WriteString(formatter.Dim("  enter apply · esc cancel"))
		b.WriteString("\n")
	}
	if m.status != "" {
		style := formatter.StyleGreen
		if m.statusErr {
			style = formatter.StyleRed
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keymap))
	return b.String()
}

func (m *surveyModel) renderRow(idx int, key string, labelWidth int) string {
	cursor, labelStyle := "  ", formatter.StyleFg
	if idx == m.cursor {
		cursor, labelStyle = formatter.StyleCursor.Render("> "), formatter.StyleCursor
	}

	label := m.spec.FieldLabel(key)
	pad := strings.Repeat(" ", labelWidth-lipgloss.Width(label))
	locked := m.engine.Locked(key)

	lock := ""
	if locked {
		lock = " " + formatter.StyleLocked.Render("[locked]")
	}

	return fmt.Sprintf("%s%s%s  %s %6s%s",
		cursor,
		labelStyle.Render(label),
		pad,
		formatter.PercentBar(m.engine.Value(key), sliderWidth, locked),
		formatter.Percent(m.engine.Value(key)),
		lock,
	)
}

func (m *surveyModel) strategyLabel() string {
	if m.engine.Strategy() == allocation.LockAware {
		return "lock and auto-adjust"
	}
	return "proportional"
}
