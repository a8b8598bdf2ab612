package dash

import (
	"errors"

	"disha/internal/api"
	"disha/internal/recommend"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Update is the single state-transition function of the dashboard.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case spinner.TickMsg:
		if !m.busy && !m.generating && !m.convo.Sending() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case authResultMsg:
		return m.handleAuthResult(msg)

	case profileLoadedMsg:
		return m.handleProfileLoaded(msg)

	case profileSavedMsg:
		return m.handleProfileSaved(msg)

	case analysisMsg:
		return m.handleAnalysis(msg)

	case historyMsg:
		return m.handleHistory(msg)

	case replyMsg:
		return m.handleReply(msg)

	case domainsMsg:
		if msg.err == nil && len(msg.domains) > 0 {
			m.domains = msg.domains
			m.form.interestOptions = interestOptionsFrom(msg.domains)
		}
		// On failure the built-in taxonomy stays in place.
		return m, nil
	}

	return m.forwardToFocused(msg)
}

// stale reports whether a result was issued under a previous session.
// Stale results are dropped, never applied.
func (m Model) stale(epoch uint64) bool {
	return epoch != m.session.Epoch()
}

// expireSession is the implicit clear on an authorization failure: the
// token is invalid, so the session ends and the guard redirects to login.
func (m *Model) expireSession() {
	if err := m.session.Logout(); err != nil && m.logger != nil {
		m.logger.Warn("clearing session", zap.Error(err))
	}
	m.pipeline.Reset()
	m.stage.Reset()
	m.convo.Reset()
	// The draft belongs to the departing principal; only the taxonomy
	// options carry over.
	m.form = newAssessmentForm()
	if len(m.domains) > 0 {
		m.form.interestOptions = interestOptionsFrom(m.domains)
	}
	m.landing = ViewAssessment
	m.busy = false
	m.generating = false
	m.err = nil
	m.notice = "Session expired. Please log in again."
	m.applyRoute()
}

// fail routes an API error: authorization failures clear the session,
// everything else is surfaced next to the component that issued it.
func (m *Model) fail(err error) {
	if api.IsKind(err, api.KindAuthorization) {
		m.expireSession()
		return
	}
	m.err = err
	m.notice = ""
}

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true

	contentWidth := max(20, msg.Width-4)
	contentHeight := max(5, msg.Height-10)

	m.chatVP.Width = contentWidth
	m.chatVP.Height = contentHeight
	m.recVP.Width = contentWidth
	m.recVP.Height = contentHeight
	m.chatInput.SetWidth(contentWidth)
	for i := range m.authInputs {
		m.authInputs[i].Width = min(48, contentWidth)
	}
	m.form.subjects.Width = min(64, contentWidth)
	m.form.grades.Width = min(64, contentWidth)
	m.form.goals.Width = min(64, contentWidth)

	m.refreshChat()
	return m
}

func (m Model) handleAuthResult(msg authResultMsg) (tea.Model, tea.Cmd) {
	if m.stale(msg.epoch) {
		return m, nil
	}
	m.busy = false

	if msg.err != nil {
		// Bad credentials leave the session untouched; the form keeps
		// its input for retry.
		m.fail(msg.err)
		return m, nil
	}

	if err := m.session.Login(msg.auth); err != nil {
		m.err = err
		return m, nil
	}

	m.err = nil
	m.notice = ""
	m.authInputs[authFieldPassword].SetValue("")
	m.landing = ViewAssessment
	if msg.auth.Principal.ProfileCompleted {
		m.landing = ViewRecommend
	}
	m.applyRoute()

	// The new session drives the pipeline: profile first, history for the
	// chat panel alongside.
	return m, tea.Batch(m.loadProfileCmd(), m.historyCmd())
}

func (m Model) handleProfileLoaded(msg profileLoadedMsg) (tea.Model, tea.Cmd) {
	if m.stale(msg.epoch) {
		return m, nil
	}
	if msg.err != nil {
		m.fail(msg.err)
		return m, nil
	}
	if msg.profile != nil {
		m.form.setFromProfile(*msg.profile)
	}
	// A nil profile is the "no assessment yet" state; the empty form is
	// already the right UI for it.
	return m, nil
}

func (m Model) handleProfileSaved(msg profileSavedMsg) (tea.Model, tea.Cmd) {
	if m.stale(msg.epoch) {
		return m, nil
	}
	m.busy = false

	if msg.err != nil {
		m.fail(msg.err)
		return m, nil
	}

	m.err = nil
	m.notice = "Assessment saved."
	m.landing = ViewRecommend
	m.view = ViewRecommend
	return m, nil
}

func (m Model) handleAnalysis(msg analysisMsg) (tea.Model, tea.Cmd) {
	if m.stale(msg.epoch) {
		return m, nil
	}
	m.generating = false

	if msg.err != nil {
		if errors.Is(msg.err, recommend.ErrNoProfile) {
			m.notice = "Complete and save your assessment first."
			return m, nil
		}
		m.fail(msg.err)
		return m, nil
	}

	m.err = nil
	m.notice = ""
	m.recVP.SetContent(m.renderMarkdown(msg.rec.Analysis))
	m.recVP.GotoTop()
	return m, nil
}

func (m Model) handleHistory(msg historyMsg) (tea.Model, tea.Cmd) {
	if m.stale(msg.epoch) {
		return m, nil
	}
	if msg.err != nil {
		// An expired token here clears the session; no turns render.
		m.fail(msg.err)
		return m, nil
	}
	m.convo.SetHistory(msg.turns)
	m.refreshChat()
	return m, nil
}

func (m Model) handleReply(msg replyMsg) (tea.Model, tea.Cmd) {
	if m.stale(msg.epoch) {
		// The conversation was reset with the session; nothing to settle.
		return m, nil
	}

	if msg.err != nil {
		if api.IsKind(msg.err, api.KindAuthorization) {
			m.expireSession()
			return m, nil
		}
		// Settle the send and put the draft back so the user can retry
		// with unchanged input.
		if draft, err := m.convo.Fail(); err == nil && m.chatInput.Value() == "" {
			m.chatInput.SetValue(draft)
		}
		m.err = msg.err
		m.refreshChat()
		return m, nil
	}

	if _, err := m.convo.Complete(msg.reply); err == nil {
		m.err = nil
	}
	m.refreshChat()
	m.chatVP.GotoBottom()
	return m, nil
}

// forwardToFocused lets the focused input component consume anything the
// dashboard did not handle itself.
func (m Model) forwardToFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ViewLogin:
		m.authInputs[m.authFocus], cmd = m.authInputs[m.authFocus].Update(msg)
	case ViewAssessment:
		if in := m.form.textInput(); in != nil {
			*in, cmd = in.Update(msg)
		}
	case ViewChat:
		m.chatInput, cmd = m.chatInput.Update(msg)
	case ViewRecommend:
		m.recVP, cmd = m.recVP.Update(msg)
	}
	return m, cmd
}

