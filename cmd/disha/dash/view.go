// View rendering for the dashboard.
package dash

import (
	"strings"

	"disha/internal/assessment"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.renderHeader()

	var body string
	switch m.view {
	case ViewLogin:
		body = m.renderLogin()
	case ViewAssessment:
		body = m.renderAssessment()
	case ViewRecommend:
		body = m.renderRecommend()
	case ViewChat:
		body = m.renderChat()
	}

	footer := m.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, m.styles.Content.Render(body), footer)
}

func (m Model) renderHeader() string {
	title := m.styles.Header.Render(" disha ")
	section := m.styles.Badge.Render(m.view.String())

	var who string
	if p, ok := m.session.Principal(); ok {
		who = m.styles.Muted.Render(" " + p.Name + " <" + p.Email + ">")
	}

	var status string
	switch {
	case m.busy || m.generating || m.convo.Sending():
		status = lipgloss.JoinHorizontal(lipgloss.Center, m.spinner.View(), " ", m.styles.Muted.Render("working..."))
	default:
		status = m.styles.Success.Render("Ready")
	}

	line := lipgloss.JoinHorizontal(lipgloss.Center, title, " ", section, "  ", status)
	return lipgloss.JoinVertical(lipgloss.Left, line, who, m.styles.RenderDivider(m.width))
}

func (m Model) renderFooter() string {
	var hints []string
	switch m.view {
	case ViewLogin:
		mode := "Ctrl+R: register"
		if m.registerMode {
			mode = "Ctrl+R: back to login"
		}
		hints = []string{"Tab: next field", "Enter: submit", mode}
	case ViewAssessment:
		hints = []string{"↑/↓: field", "←/→: change", "Space: toggle", "Ctrl+S: save"}
	case ViewRecommend:
		hints = []string{"g: generate", "r: regenerate", "↑/↓: scroll"}
	case ViewChat:
		hints = []string{"Enter: send", "Alt+Enter: new line", "PgUp/PgDn: scroll"}
	}
	if m.session.Authenticated() {
		hints = append(hints, "Alt+A/R/C: switch", "Ctrl+L: logout")
	}
	hints = append(hints, "Ctrl+C: quit")

	footer := m.styles.Footer.Render(strings.Join(hints, " | "))

	var status string
	if m.err != nil {
		status = m.styles.Error.Render("Error: " + m.err.Error())
	} else if m.notice != "" {
		status = m.styles.Info.Render(m.notice)
	}
	if status != "" {
		return lipgloss.JoinVertical(lipgloss.Left, status, footer)
	}
	return footer
}

// -----------------------------------------------------------------------
// Login
// -----------------------------------------------------------------------

func (m Model) renderLogin() string {
	title := "Welcome back"
	action := "Log in to continue."
	if m.registerMode {
		title = "Create your account"
		action = "Register to get started."
	}

	rows := []string{
		m.styles.Title.Render(title),
		m.styles.Subtitle.Render(action),
		"",
	}
	if m.registerMode {
		rows = append(rows, m.styles.FieldLabel.Render("Name")+m.authInputs[authFieldName].View())
	}
	rows = append(rows,
		m.styles.FieldLabel.Render("Email")+m.authInputs[authFieldEmail].View(),
		m.styles.FieldLabel.Render("Password")+m.authInputs[authFieldPassword].View(),
	)
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// -----------------------------------------------------------------------
// Assessment
// -----------------------------------------------------------------------

func (m Model) renderAssessment() string {
	f := m.form

	rows := []string{
		m.styles.Title.Render("Self-assessment"),
		m.formRowView(rowLevel, "Level", m.enumView(assessment.Levels(), f.levelIdx)),
	}
	if assessment.Levels()[f.levelIdx] == assessment.LevelHighSchool {
		rows = append(rows, m.formRowView(rowClass, "Class", m.enumView(classes, f.classIdx)))
	}
	rows = append(rows,
		m.formRowView(rowStream, "Stream", m.enumView(streams, f.streamIdx)),
		m.formRowView(rowSubjects, "Subjects", f.subjects.View()),
		m.formRowView(rowGrades, "Grades", f.grades.View()),
		m.formRowView(rowInterests, "Interests", m.toggleView(f.interestOptions, f.interests, f.cursor, f.row == rowInterests)),
		m.formRowView(rowStrengths, "Strengths", m.toggleView(strengthOptions, f.strengths, f.cursor, f.row == rowStrengths)),
		m.formRowView(rowGoals, "Goals", f.goals.View()),
		"",
		m.saveButtonView(),
	)
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) formRowView(row formRow, label, value string) string {
	style := m.styles.FieldLabel
	if m.form.row == row {
		style = m.styles.FieldActive.Width(16)
	}
	return style.Render(label) + value
}

func (m Model) enumView(options []string, selected int) string {
	parts := make([]string, len(options))
	for i, opt := range options {
		if i == selected {
			parts[i] = m.styles.Selected.Render("(•) " + opt)
		} else {
			parts[i] = m.styles.Muted.Render("( ) " + opt)
		}
	}
	return strings.Join(parts, "  ")
}

// toggleView renders a set-membership row. The cursor is shown only when
// the row is focused.
func (m Model) toggleView(options, chosen []string, cursor int, focused bool) string {
	if len(options) == 0 {
		return m.styles.Muted.Render("(none available)")
	}

	var b strings.Builder
	for i, opt := range options {
		mark := "[ ] "
		if assessment.Has(chosen, opt) {
			mark = "[x] "
		}
		item := mark + opt
		switch {
		case focused && i == cursor:
			item = m.styles.Selected.Render("> " + item)
		case assessment.Has(chosen, opt):
			item = m.styles.Bold.Render("  " + item)
		default:
			item = m.styles.Muted.Render("  " + item)
		}
		b.WriteString(item)
		if i < len(options)-1 {
			b.WriteString("  ")
		}
	}
	return wrapToWidth(b.String(), m.width-20)
}

func (m Model) saveButtonView() string {
	label := " Save assessment "
	if m.form.row == rowSave {
		return m.styles.Badge.Render(label)
	}
	return m.styles.Muted.Render("[" + strings.TrimSpace(label) + "]")
}

// -----------------------------------------------------------------------
// Recommendations
// -----------------------------------------------------------------------

func (m Model) renderRecommend() string {
	if _, ok := m.stage.Latest(); ok {
		return m.recVP.View()
	}

	if _, ok := m.pipeline.Current(); !ok {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.styles.Title.Render("Career recommendations"),
			m.styles.Muted.Render("No assessment yet. Fill in the assessment (Alt+A), then press 'g' here."),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render("Career recommendations"),
		m.styles.Muted.Render("Press 'g' to generate recommendations from your saved assessment."),
	)
}

// -----------------------------------------------------------------------
// Chat
// -----------------------------------------------------------------------

func (m Model) renderChat() string {
	input := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.styles.Theme.Accent).
		Padding(0, 1).
		Render(m.chatInput.View())

	return lipgloss.JoinVertical(lipgloss.Left, m.chatVP.View(), input)
}

// refreshChat rebuilds the chat transcript, oldest turn first, with the
// in-flight message (if any) at the bottom.
func (m *Model) refreshChat() {
	var sb strings.Builder

	turns := m.convo.Turns()
	if len(turns) == 0 && !m.convo.Sending() {
		sb.WriteString(m.styles.Muted.Render("Ask the counselor anything about your career path."))
	}

	for _, turn := range turns {
		userStyle := m.styles.Bold.Foreground(m.styles.Theme.Primary).MarginTop(1)
		sb.WriteString(userStyle.Render("You") + "\n")
		sb.WriteString(m.styles.UserInput.Render(turn.Message))
		sb.WriteString("\n\n")

		counselorStyle := m.styles.Bold.Foreground(m.styles.Theme.Accent)
		sb.WriteString(counselorStyle.Render("Counselor") + "\n")
		sb.WriteString(m.renderMarkdown(turn.Reply))
		sb.WriteString("\n")
	}

	if pending, ok := m.convo.Pending(); ok {
		userStyle := m.styles.Bold.Foreground(m.styles.Theme.Primary).MarginTop(1)
		sb.WriteString(userStyle.Render("You") + "\n")
		sb.WriteString(m.styles.UserInput.Render(pending))
		sb.WriteString("\n" + m.styles.Muted.Render("...") + "\n")
	}

	m.chatVP.SetContent(sb.String())
}

// renderMarkdown renders with glamour, falling back to plain text. The
// renderer has panicked on odd terminal sizes before, hence the recover.
func (m Model) renderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		if rendered, err := m.renderer.Render(content); err == nil {
			return rendered
		}
	}
	return content
}

// wrapToWidth soft-wraps rendered option rows so long taxonomies stay
// readable on narrow terminals.
func wrapToWidth(s string, width int) string {
	if width <= 0 {
		return s
	}
	var out []string
	line := ""
	for _, part := range strings.Split(s, "  ") {
		if line != "" && lipgloss.Width(line)+lipgloss.Width(part)+2 > width {
			out = append(out, line)
			line = part
			continue
		}
		if line == "" {
			line = part
		} else {
			line += "  " + part
		}
	}
	if line != "" {
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
