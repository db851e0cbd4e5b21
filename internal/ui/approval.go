package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/epuerta/apply-patch-go/internal/patch"
)

// Styles for the approval prompt
var (
	approvalTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("5")).
				MarginBottom(1)

	approvalStatsStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("3"))

	approvalWarningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("1"))

	approvalHelpStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("8"))

	applyButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("2")).
				Background(lipgloss.Color("0")).
				Padding(0, 1).
				MarginRight(1)

	cancelButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("1")).
				Background(lipgloss.Color("0")).
				Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)
)

// approvalKeyMap holds the bindings the prompt reacts to.
type approvalKeyMap struct {
	Apply   key.Binding
	Cancel  key.Binding
	Left    key.Binding
	Right   key.Binding
	Confirm key.Binding
	Preview key.Binding
}

var approvalKeys = approvalKeyMap{
	Apply:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "apply")),
	Cancel:  key.NewBinding(key.WithKeys("n", "esc", "q", "ctrl+c"), key.WithHelp("n/esc", "cancel")),
	Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "apply")),
	Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "cancel")),
	Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
	Preview: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "toggle preview")),
}

func (k approvalKeyMap) help() string {
	parts := make([]string, 0, 5)
	for _, b := range []key.Binding{k.Apply, k.Cancel, k.Left, k.Confirm, k.Preview} {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, "  ")
}

// ApprovalModel is a bubble tea model for approving a prepared patch
type ApprovalModel struct {
	Title       string
	Preview     string // Rendered patch
	Stats       string
	Warning     string // Shown when the patch only applies loosely
	ShowPreview bool
	Approved    bool // true = apply, false = cancel
	Done        bool // When true, the user has made a selection
	YesText     string
	NoText      string
}

// NewPatchApprovalModel builds the prompt shown before a patch is applied.
// Selection starts on Cancel.
func NewPatchApprovalModel(result *patch.Result) ApprovalModel {
	return ApprovalModel{
		Title:       fmt.Sprintf("Apply patch to %d file(s)?", len(result.Commit.Changes)),
		Preview:     FormatPatchForDisplay(result.Patch, result.Commit),
		Stats:       FormatStats(result.Commit),
		Warning:     fuzzWarning(result.Fuzz),
		ShowPreview: true,
		YesText:     "Apply",
		NoText:      "Cancel",
	}
}

// fuzzWarning explains a non-zero fuzz score, or returns "" for an exact patch.
func fuzzWarning(fuzz int) string {
	switch {
	case fuzz == 0:
		return ""
	case fuzz >= patch.FuzzEOFFallback:
		return fmt.Sprintf("fuzz %d: end-of-file context was found away from the end of a file", fuzz)
	default:
		return fmt.Sprintf("fuzz %d: some context matched only after ignoring whitespace", fuzz)
	}
}

// Init initializes the model
func (m ApprovalModel) Init() tea.Cmd {
	return nil
}

// Update handles updates to the model
func (m ApprovalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, approvalKeys.Apply):
		m.Done = true
		m.Approved = true
		return m, tea.Quit
	case key.Matches(keyMsg, approvalKeys.Cancel):
		m.Done = true
		m.Approved = false
		return m, tea.Quit
	case key.Matches(keyMsg, approvalKeys.Left):
		m.Approved = true
	case key.Matches(keyMsg, approvalKeys.Right):
		m.Approved = false
	case key.Matches(keyMsg, approvalKeys.Preview):
		m.ShowPreview = !m.ShowPreview
	case key.Matches(keyMsg, approvalKeys.Confirm):
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the model
func (m ApprovalModel) View() string {
	var sb strings.Builder

	sb.WriteString(approvalTitleStyle.Render(m.Title))
	sb.WriteString("\n")

	if m.ShowPreview && m.Preview != "" {
		sb.WriteString(m.Preview)
		sb.WriteString("\n")
	}

	sb.WriteString(approvalStatsStyle.Render(m.Stats))
	sb.WriteString("\n")
	if m.Warning != "" {
		sb.WriteString(approvalWarningStyle.Render("! " + m.Warning))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	yes, no := m.YesText, m.NoText
	if m.Approved {
		yes = selectedStyle.Render(yes)
	} else {
		no = selectedStyle.Render(no)
	}
	sb.WriteString(applyButtonStyle.Render(yes) + cancelButtonStyle.Render(no))
	sb.WriteString("\n\n")

	sb.WriteString(approvalHelpStyle.Render(approvalKeys.help()))

	return sb.String()
}

// GetApproval runs the approval UI and returns the result. A nil input reads
// from the terminal, so the prompt still works when the patch came on stdin.
func GetApproval(model ApprovalModel, input io.Reader, output io.Writer) (bool, error) {
	opts := []tea.ProgramOption{}
	if input == nil {
		opts = append(opts, tea.WithInputTTY())
	} else {
		opts = append(opts, tea.WithInput(input))
	}
	if output != nil {
		opts = append(opts, tea.WithOutput(output))
	}

	p := tea.NewProgram(model, opts...)
	result, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("error running approval UI: %w", err)
	}

	finalModel, ok := result.(ApprovalModel)
	if !ok {
		return false, fmt.Errorf("unexpected model type: %T", result)
	}

	return finalModel.Done && finalModel.Approved, nil
}
