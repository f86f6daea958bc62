package models

// AuthState is the read-only snapshot of the session controller exposed to
// consumers. Pointer fields are nil when the value is absent.
type AuthState struct {
	User     *AuthUser
	Session  *Session
	Profile  *UserProfile
	Settings *UserSettings

	// Loading is true until the first auth state resolution completes.
	Loading bool
}

// SignedIn reports whether a user identity is mirrored.
func (s AuthState) SignedIn() bool {
	return s.User != nil && s.User.ID != ""
}

// Clone returns a deep copy whose pointers do not alias s.
func (s AuthState) Clone() AuthState {
	out := AuthState{Loading: s.Loading}
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	if s.Session != nil {
		sess := *s.Session
		if s.Session.User != nil {
			u := *s.Session.User
			sess.User = &u
		}
		out.Session = &sess
	}
	if s.Profile != nil {
		p := *s.Profile
		if s.Profile.LastLogin != nil {
			stamp := *s.Profile.LastLogin
			p.LastLogin = &stamp
		}
		if s.Profile.ChatbotPreferences != nil {
			p.ChatbotPreferences = append([]byte(nil), s.Profile.ChatbotPreferences...)
		}
		out.Profile = &p
	}
	if s.Settings != nil {
		settings := *s.Settings
		out.Settings = &settings
	}
	return out
}
