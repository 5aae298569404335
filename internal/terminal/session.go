package terminal

import (
	"time"

	"github.com/google/uuid"
)

// Session is the per-visitor state every handler receives. It replaces
// module-level flags: which feature is active, which challenge is selected.
type Session struct {
	ID        string         `json:"id"`
	Feature   string         `json:"feature,omitempty"`
	Challenge ChallengeState `json:"challenge"`
	History   []string       `json:"history,omitempty"`
	Theme     string         `json:"theme,omitempty"`
	LastTab   string         `json:"last_tab,omitempty"`
	// Installed tracks extensions toggled with `install`.
	Installed []string  `json:"installed,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChallengeState is the progress on the currently selected challenge.
type ChallengeState struct {
	Selected       string `json:"selected,omitempty"`
	HintsShown     int    `json:"hints_shown,omitempty"`
	SolutionLoaded bool   `json:"solution_loaded,omitempty"`
}

// NewSession returns a session with a fresh random ID.
func NewSession(now time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Theme:     DefaultTheme,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DefaultTheme is applied to new sessions.
const DefaultTheme = "dark"

// Remember appends input to the history, keeping at most limit entries.
func (s *Session) Remember(input string, limit int) {
	if input == "" || limit <= 0 {
		return
	}
	s.History = append(s.History, input)
	if over := len(s.History) - limit; over > 0 {
		s.History = append([]string(nil), s.History[over:]...)
	}
}

// IsInstalled reports whether the extension id was installed this session.
func (s *Session) IsInstalled(id string) bool {
	for _, v := range s.Installed {
		if v == id {
			return true
		}
	}
	return false
}
