package credential

// Store persists at most one session token at a time.
//
// All operations are synchronous and must never fail loudly: when the
// backing storage is unavailable they degrade to no-ops so a broken
// token cache can't take the portal down with it. Load distinguishes
// "no token stored" from an empty value via its second return.
type Store interface {
	// Save overwrites any previously stored token
	Save(token string)

	// Load returns the stored token, or ("", false) when absent
	Load() (string, bool)

	// Clear removes the stored token; clearing an empty store is not an error
	Clear()
}
