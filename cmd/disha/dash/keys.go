package dash

import (
	"errors"
	"strings"

	"disha/internal/assessment"
	"disha/internal/conversation"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Quit works everywhere.
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	// Global bindings for authenticated sessions.
	if m.session.Authenticated() {
		if msg.Alt && len(msg.Runes) > 0 {
			switch msg.Runes[0] {
			case 'a':
				m.view = ViewAssessment
				return m, nil
			case 'r':
				m.view = ViewRecommend
				return m, nil
			case 'c':
				m.view = ViewChat
				m.chatInput.Focus()
				return m, nil
			}
		}
		if msg.Type == tea.KeyCtrlL {
			// Explicit logout.
			m.expireSession()
			m.notice = "Logged out."
			return m, nil
		}
	}

	switch m.view {
	case ViewLogin:
		return m.handleLoginKeys(msg)
	case ViewAssessment:
		return m.handleAssessmentKeys(msg)
	case ViewRecommend:
		return m.handleRecommendKeys(msg)
	case ViewChat:
		return m.handleChatKeys(msg)
	}
	return m, nil
}

// -----------------------------------------------------------------------
// Login / register
// -----------------------------------------------------------------------

func (m Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlR:
		m.registerMode = !m.registerMode
		m.err = nil
		if m.registerMode {
			m.setAuthFocus(authFieldName)
		} else {
			m.setAuthFocus(authFieldEmail)
		}
		return m, nil

	case tea.KeyTab, tea.KeyDown:
		m.setAuthFocus(m.nextAuthField(1))
		return m, nil

	case tea.KeyShiftTab, tea.KeyUp:
		m.setAuthFocus(m.nextAuthField(-1))
		return m, nil

	case tea.KeyEnter:
		if m.busy {
			return m, nil
		}
		return m.submitAuth()
	}

	return m.forwardToFocused(msg)
}

func (m *Model) setAuthFocus(field int) {
	for i := range m.authInputs {
		m.authInputs[i].Blur()
	}
	m.authFocus = field
	m.authInputs[field].Focus()
}

// nextAuthField cycles focus, skipping the name field outside register
// mode.
func (m Model) nextAuthField(dir int) int {
	first := authFieldEmail
	if m.registerMode {
		first = authFieldName
	}
	fields := []int{authFieldEmail, authFieldPassword}
	if m.registerMode {
		fields = []int{authFieldName, authFieldEmail, authFieldPassword}
	}
	for i, f := range fields {
		if f == m.authFocus {
			next := (i + dir + len(fields)) % len(fields)
			return fields[next]
		}
	}
	return first
}

func (m Model) submitAuth() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(m.authInputs[authFieldName].Value())
	email := strings.TrimSpace(m.authInputs[authFieldEmail].Value())
	password := m.authInputs[authFieldPassword].Value()

	// Local guard only; the server stays authoritative.
	if email == "" || password == "" || (m.registerMode && name == "") {
		m.notice = "All fields are required."
		return m, nil
	}

	m.busy = true
	m.notice = ""
	m.err = nil
	if m.registerMode {
		return m, tea.Batch(m.spinner.Tick, m.registerCmd(name, email, password))
	}
	return m, tea.Batch(m.spinner.Tick, m.loginCmd(email, password))
}

// -----------------------------------------------------------------------
// Assessment form
// -----------------------------------------------------------------------

func (m Model) handleAssessmentKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp, tea.KeyShiftTab:
		if m.form.row > rowLevel {
			m.form.focusRow(m.form.row - 1)
		}
		return m, nil

	case tea.KeyDown, tea.KeyTab:
		if m.form.row < rowSave {
			m.form.focusRow(m.form.row + 1)
		}
		return m, nil

	case tea.KeyLeft:
		m.cycleFormValue(-1)
		return m, nil

	case tea.KeyRight:
		m.cycleFormValue(1)
		return m, nil

	case tea.KeySpace:
		if m.form.optionCount() > 0 {
			m.form.toggleAtCursor()
			return m, nil
		}

	case tea.KeyCtrlS:
		return m.submitAssessment()

	case tea.KeyEnter:
		if m.form.row == rowSave {
			return m.submitAssessment()
		}
		m.form.focusRow(m.form.row + 1)
		return m, nil
	}

	return m.forwardToFocused(msg)
}

func (m *Model) cycleFormValue(dir int) {
	switch m.form.row {
	case rowLevel:
		m.form.levelIdx = cycle(m.form.levelIdx, dir, len(assessment.Levels()))
	case rowClass:
		m.form.classIdx = cycle(m.form.classIdx, dir, len(classes))
	case rowStream:
		m.form.streamIdx = cycle(m.form.streamIdx, dir, len(streams))
	case rowInterests, rowStrengths:
		m.form.cursor = cycle(m.form.cursor, dir, m.form.optionCount())
	}
}

func cycle(i, dir, n int) int {
	if n == 0 {
		return 0
	}
	return (i + dir + n) % n
}

func (m Model) submitAssessment() (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	m.busy = true
	m.err = nil
	m.notice = ""
	return m, tea.Batch(m.spinner.Tick, m.saveProfileCmd(m.form.profile()))
}

// -----------------------------------------------------------------------
// Recommendations
// -----------------------------------------------------------------------

func (m Model) handleRecommendKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(msg.Runes) == 1 && !msg.Alt {
		switch msg.Runes[0] {
		case 'g', 'r':
			// Regenerate re-invokes the same derivation; 'r' exists so
			// the footer can name it, not because it is a second path.
			if m.generating {
				return m, nil
			}
			m.generating = true
			m.err = nil
			m.notice = ""
			return m, tea.Batch(m.spinner.Tick, m.generateCmd())
		}
	}
	return m.forwardToFocused(msg)
}

// -----------------------------------------------------------------------
// Chat
// -----------------------------------------------------------------------

func (m Model) handleChatKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		// Alt+Enter inserts a literal line break instead of sending;
		// same for newlines arriving via bracketed paste.
		if msg.Alt {
			m.chatInput.InsertString("\n")
			return m, nil
		}
		if msg.Paste {
			break
		}
		return m.submitChat()

	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.chatVP, cmd = m.chatVP.Update(msg)
		return m, cmd
	}

	return m.forwardToFocused(msg)
}

func (m Model) submitChat() (tea.Model, tea.Cmd) {
	message, err := m.convo.Begin(m.chatInput.Value())
	switch {
	case errors.Is(err, conversation.ErrEmpty):
		// No request; input unchanged.
		return m, nil
	case errors.Is(err, conversation.ErrBusy):
		m.notice = "Waiting for the counselor's reply..."
		return m, nil
	case err != nil:
		m.err = err
		return m, nil
	}

	m.chatInput.SetValue("")
	m.err = nil
	m.notice = ""
	m.refreshChat()
	m.chatVP.GotoBottom()
	return m, tea.Batch(m.spinner.Tick, m.sendCmd(message))
}
