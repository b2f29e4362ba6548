package identity

import "time"

const (
	RoleDirector        = "DIRECTOR"
	RoleCommitteeMember = "COMMITTEE_MEMBER"
	RoleMember          = "MEMBER"
	RoleParent          = "PARENT"
	RoleChild           = "CHILD"
)

type User struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"not null;index"`
	PasswordHash string    `gorm:"not null"`
	FullName     string    `gorm:"not null"`
	Phone        string    `gorm:""`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`

	// Loaded from the user_roles table, not a column.
	Roles []string `gorm:"-"`
}

func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type UserRole struct {
	UserID string `gorm:"type:uuid;primaryKey"`
	Role   string `gorm:"type:varchar(32);primaryKey"`
}

// GuardianLink binds a minor to exactly one guardian. A child appears in at
// most one link; a parent may appear in many.
type GuardianLink struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	ParentID  string    `gorm:"type:uuid;not null;index"`
	ChildID   string    `gorm:"type:uuid;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Principal is the authenticated caller, threaded explicitly through every
// role-gated operation.
type Principal struct {
	UserID string
	Email  string
	Roles  []string
}

func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// RequireRole gates an operation on the caller holding the given role.
func RequireRole(caller Principal, role string) error {
	if !caller.HasRole(role) {
		return ErrUnauthorized
	}
	return nil
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
}

type UpdateAccountInput struct {
	FullName string
	Email    string
	Phone    string
	Password string
}
