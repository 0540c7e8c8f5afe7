package model

import "time"

// Account is the stored user record on the identity service side.
// Kept separate from Identity so the password hash never travels with
// session state.
type Account struct {
	ID           IdentityID
	Username     string
	Email        string // login identifier, unique
	PasswordHash string // bcrypt hash
	Role         Role
	Favorites    Favorites
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Clone returns a deep copy of the account
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	out := *a
	out.Favorites = a.Favorites.Clone()
	return &out
}

// Identity returns the public view of the account
func (a *Account) Identity() *Identity {
	return &Identity{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Role:      a.Role,
		Favorites: a.Favorites.Clone(),
	}
}
