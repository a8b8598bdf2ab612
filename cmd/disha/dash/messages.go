package dash

import (
	"disha/internal/api"
	"disha/internal/recommend"
)

// Results of async commands. Every message carries the session epoch it
// was issued under; Update drops results from a previous epoch instead of
// applying them (a logout or re-login invalidates in-flight responses).
type (
	authResultMsg struct {
		epoch uint64
		auth  api.Authorization
		err   error
	}

	profileLoadedMsg struct {
		epoch   uint64
		profile *api.Profile // nil: no assessment yet
		err     error
	}

	profileSavedMsg struct {
		epoch   uint64
		profile api.Profile
		err     error
	}

	analysisMsg struct {
		epoch uint64
		rec   recommend.Recommendation
		err   error
	}

	historyMsg struct {
		epoch uint64
		turns []api.Turn
		err   error
	}

	replyMsg struct {
		epoch uint64
		reply string
		err   error
	}

	domainsMsg struct {
		domains map[string]api.Domain
		err     error
	}
)
