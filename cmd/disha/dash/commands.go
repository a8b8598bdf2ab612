package dash

import (
	"context"

	"disha/internal/api"

	tea "github.com/charmbracelet/bubbletea"
)

// Commands run on the bubbletea runtime's goroutines; they touch only the
// stage objects (which are safe for that) and report back via messages.
// No command is cancelled mid-flight; stale results are dropped by epoch.

func (m Model) loginCmd(email, password string) tea.Cmd {
	epoch := m.session.Epoch()
	client := m.client
	return func() tea.Msg {
		auth, err := client.Login(context.Background(), email, password)
		return authResultMsg{epoch: epoch, auth: auth, err: err}
	}
}

func (m Model) registerCmd(name, email, password string) tea.Cmd {
	epoch := m.session.Epoch()
	client := m.client
	return func() tea.Msg {
		auth, err := client.Register(context.Background(), name, email, password)
		return authResultMsg{epoch: epoch, auth: auth, err: err}
	}
}

func (m Model) loadProfileCmd() tea.Cmd {
	epoch := m.session.Epoch()
	pipeline := m.pipeline
	return func() tea.Msg {
		profile, err := pipeline.Load(context.Background())
		return profileLoadedMsg{epoch: epoch, profile: profile, err: err}
	}
}

func (m Model) saveProfileCmd(profile api.Profile) tea.Cmd {
	epoch := m.session.Epoch()
	pipeline := m.pipeline
	stage := m.stage
	return func() tea.Msg {
		if err := pipeline.Save(context.Background(), profile); err != nil {
			return profileSavedMsg{epoch: epoch, err: err}
		}
		// Successful save is the "profile changed" signal: a cached
		// recommendation computed from an older version is now stale.
		stage.Invalidate(pipeline.Version())
		return profileSavedMsg{epoch: epoch, profile: profile}
	}
}

// generateCmd serves both generate and regenerate; there is only one
// derivation path.
func (m Model) generateCmd() tea.Cmd {
	epoch := m.session.Epoch()
	pipeline := m.pipeline
	stage := m.stage
	return func() tea.Msg {
		var profile *api.Profile
		if current, ok := pipeline.Current(); ok {
			profile = &current
		}
		rec, err := stage.Generate(context.Background(), profile, pipeline.Version())
		return analysisMsg{epoch: epoch, rec: rec, err: err}
	}
}

func (m Model) historyCmd() tea.Cmd {
	epoch := m.session.Epoch()
	client := m.client
	return func() tea.Msg {
		turns, err := client.History(context.Background())
		if api.IsKind(err, api.KindNotFound) {
			// Empty history is a normal state.
			return historyMsg{epoch: epoch}
		}
		return historyMsg{epoch: epoch, turns: turns, err: err}
	}
}

func (m Model) sendCmd(message string) tea.Cmd {
	epoch := m.session.Epoch()
	client := m.client
	return func() tea.Msg {
		reply, err := client.Send(context.Background(), message)
		return replyMsg{epoch: epoch, reply: reply, err: err}
	}
}

func (m Model) domainsCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		domains, err := client.Domains(context.Background())
		return domainsMsg{domains: domains, err: err}
	}
}
