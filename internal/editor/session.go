package editor

// SessionContext carries the editing identity the engine and gateway work
// under. SyllabusID is empty for a draft; the first successful create fills it
// and every later save becomes an update. A stale id (deleted server-side) is
// cleared again on the 404, returning the session to draft state.
type SessionContext struct {
	UserID     string
	SyllabusID string
	IsAdmin    bool
}

// Draft reports whether the session has no persisted document yet.
func (s SessionContext) Draft() bool { return s.SyllabusID == "" }
