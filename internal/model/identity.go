package model

import "sort"

// IdentityID uniquely identifies a portal user across the system
type IdentityID string

// Role determines what a user may do in the portal
type Role string

// Known roles
const (
	RoleAdmin          Role = "admin"
	RoleContentManager Role = "content_manager"
	RoleDeveloper      Role = "developer"
)

// ValidRole reports whether r is one of the known roles
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleContentManager, RoleDeveloper:
		return true
	}
	return false
}

// FavoriteCategory groups favorited entities by kind
type FavoriteCategory string

// Known favorite categories
const (
	FavoriteLanguages  FavoriteCategory = "languages"
	FavoriteProjects   FavoriteCategory = "projects"
	FavoriteComponents FavoriteCategory = "components"
	FavoriteGuides     FavoriteCategory = "guides"
)

// Favorites maps a category to a set of entity identifiers.
// Slices are kept sorted and duplicate-free.
type Favorites map[FavoriteCategory][]string

// Has reports whether id is favorited under category
func (f Favorites) Has(category FavoriteCategory, id string) bool {
	for _, v := range f[category] {
		if v == id {
			return true
		}
	}
	return false
}

// Add inserts id under category, preserving set semantics
func (f Favorites) Add(category FavoriteCategory, id string) {
	if f.Has(category, id) {
		return
	}
	f[category] = append(f[category], id)
	sort.Strings(f[category])
}

// Remove deletes id from category; removing an absent id is a no-op
func (f Favorites) Remove(category FavoriteCategory, id string) {
	items := f[category]
	for i, v := range items {
		if v == id {
			f[category] = append(items[:i], items[i+1:]...)
			return
		}
	}
}

// Clone returns a deep copy so callers can't alias the underlying slices
func (f Favorites) Clone() Favorites {
	if f == nil {
		return nil
	}
	out := make(Favorites, len(f))
	for cat, items := range f {
		out[cat] = append([]string(nil), items...)
	}
	return out
}

// Identity is the authenticated portal user
type Identity struct {
	ID        IdentityID `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	Favorites Favorites  `json:"favorites,omitempty"`
}

// Clone returns a deep copy of the identity
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	out := *i
	out.Favorites = i.Favorites.Clone()
	return &out
}

// ProfileUpdate carries the mutable identity fields for a partial update.
// Nil fields are left unchanged.
type ProfileUpdate struct {
	Username  *string   `json:"username,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Favorites Favorites `json:"favorites,omitempty"`
}

// Apply merges the update into the identity in place
func (u ProfileUpdate) Apply(identity *Identity) {
	if u.Username != nil {
		identity.Username = *u.Username
	}
	if u.Email != nil {
		identity.Email = *u.Email
	}
	if u.Favorites != nil {
		identity.Favorites = u.Favorites.Clone()
	}
}
