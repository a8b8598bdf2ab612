package dash

// Route is the route guard: a pure function of session presence. An
// anonymous session is always sent to the login view; an authenticated
// session is kept off it. It is applied on every transition (restore,
// login, logout, implicit clear), not only at startup.
func Route(authenticated bool, current, landing View) View {
	if !authenticated {
		return ViewLogin
	}
	if current == ViewLogin {
		return landing
	}
	return current
}

// applyRoute re-evaluates the guard against the current session state.
func (m *Model) applyRoute() {
	m.view = Route(m.session.Authenticated(), m.view, m.landing)
}
