// Package dash is the interactive dashboard for the career-guidance
// service. It follows the Elm architecture: the bubbletea event loop is
// the only scheduler, every network call runs as a tea.Cmd, and results
// come back as typed messages.
package dash

import (
	"disha/cmd/disha/ui"
	"disha/internal/api"
	"disha/internal/assessment"
	"disha/internal/config"
	"disha/internal/conversation"
	"disha/internal/recommend"
	"disha/internal/session"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"
)

// View identifies a dashboard screen. ViewLogin is the only view an
// anonymous session may occupy.
type View int

const (
	ViewLogin View = iota
	ViewAssessment
	ViewRecommend
	ViewChat
)

func (v View) String() string {
	switch v {
	case ViewAssessment:
		return "assessment"
	case ViewRecommend:
		return "recommendations"
	case ViewChat:
		return "counselor"
	default:
		return "login"
	}
}

// Auth form field indexes.
const (
	authFieldName = iota
	authFieldEmail
	authFieldPassword
)

// Model is the dashboard state.
type Model struct {
	styles   ui.Styles
	renderer *glamour.TermRenderer
	logger   *zap.Logger

	session  *session.Store
	client   *api.Client
	pipeline *assessment.Pipeline
	stage    *recommend.Stage
	convo    *conversation.Conversation

	view    View
	landing View // protected view entered after login

	// Auth form
	registerMode bool
	authInputs   []textinput.Model
	authFocus    int

	// Assessment form
	form assessmentForm

	// Chat
	chatInput textarea.Model
	chatVP    viewport.Model

	// Recommendations
	recVP      viewport.Model
	generating bool

	spinner spinner.Model
	width   int
	height  int
	ready   bool
	busy    bool

	err    error
	notice string

	domains map[string]api.Domain
}

// New builds the dashboard. The session store is expected to have been
// restored already; the initial view follows the route guard.
func New(cfg config.Config, store *session.Store, client *api.Client, logger *zap.Logger) Model {
	styles := ui.NewStyles(ui.ThemeByName(cfg.Theme))

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		renderer = nil
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	name := textinput.New()
	name.Placeholder = "Full name"
	name.CharLimit = 80

	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 120
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 120

	input := textarea.New()
	input.Placeholder = "Ask the counselor... (Enter to send, Alt+Enter for a new line)"
	input.CharLimit = 2000
	input.SetHeight(3)
	input.ShowLineNumbers = false

	m := Model{
		styles:     styles,
		renderer:   renderer,
		logger:     logger,
		session:    store,
		client:     client,
		pipeline:   assessment.NewPipeline(client),
		stage:      recommend.NewStage(client),
		convo:      conversation.New(),
		landing:    ViewAssessment,
		authInputs: []textinput.Model{name, email, password},
		authFocus:  authFieldEmail,
		form:       newAssessmentForm(),
		chatInput:  input,
		spinner:    sp,
		domains:    assessment.DefaultDomains(),
	}

	if p, ok := store.Principal(); ok && p.ProfileCompleted {
		m.landing = ViewRecommend
	}
	m.view = Route(store.Authenticated(), ViewLogin, m.landing)
	return m
}

// Init starts the spinner and, for a restored session, kicks off the
// profile and history loads. The domains taxonomy is fetched either way.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, textinput.Blink, m.domainsCmd()}
	if m.session.Authenticated() {
		cmds = append(cmds, m.loadProfileCmd(), m.historyCmd())
	}
	return tea.Batch(cmds...)
}

// Session exposes the store for the caller that runs the program.
func (m Model) Session() *session.Store { return m.session }
