package store

import "github.com/and161185/shopfront/internal/model"

// AuthStatus is the auth store's state machine position.
type AuthStatus int

const (
	StatusAnonymous AuthStatus = iota
	StatusAuthenticating
	StatusAuthenticated
	StatusError
)

func (s AuthStatus) String() string {
	switch s {
	case StatusAuthenticating:
		return "authenticating"
	case StatusAuthenticated:
		return "authenticated"
	case StatusError:
		return "error"
	}
	return "anonymous"
}

// AuthState is a snapshot of the auth store. Only Session is persisted.
type AuthState struct {
	model.Session
	Status    AuthStatus
	IsLoading bool
	Error     string
}

// The functions below are the pure transition rules of the auth store.
// They never touch storage or the network.

func settled(s model.Session) AuthStatus {
	if s.IsAuthenticated {
		return StatusAuthenticated
	}
	return StatusAnonymous
}

func restored(sess model.Session) AuthState {
	sess = sess.Normalize()
	return AuthState{Session: sess, Status: settled(sess)}
}

func authStarted(s AuthState) AuthState {
	s.Status = StatusAuthenticating
	s.IsLoading = true
	s.Error = ""
	return s
}

func authSucceeded(s AuthState, user *model.UserProfile, token string) AuthState {
	if user == nil || token == "" {
		return authFailed(s, "invalid auth response")
	}
	s.Session = model.Session{User: user, Token: token, IsAuthenticated: true}
	s.Status = StatusAuthenticated
	s.IsLoading = false
	s.Error = ""
	return s
}

// authFailed records msg and keeps whatever session was held before.
func authFailed(s AuthState, msg string) AuthState {
	s.Status = StatusError
	s.IsLoading = false
	s.Error = msg
	return s
}

func loggedOut(s AuthState) AuthState {
	s.Session = model.Session{}
	s.Status = StatusAnonymous
	s.IsLoading = false
	return s
}

func requestStarted(s AuthState) AuthState {
	s.IsLoading = true
	s.Error = ""
	return s
}

func profileReplaced(s AuthState, user *model.UserProfile) AuthState {
	s.IsLoading = false
	s.Error = ""
	if !s.IsAuthenticated {
		// a logout raced the request; do not resurrect the session
		return s
	}
	s.User = user
	s.Status = StatusAuthenticated
	return s
}

func requestFailed(s AuthState, msg string) AuthState {
	s.IsLoading = false
	s.Error = msg
	return s
}

func isAdmin(s AuthState) bool {
	return s.User.HasRole(model.RoleAdmin)
}
