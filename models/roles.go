package models

// Role is the single role carried by every user account
type Role string

const (
	RoleStudent        Role = "student"
	RoleContentCreator Role = "content_creator"
	RoleValidator      Role = "validator"
	RoleCoach          Role = "coach"
	RoleSponsor        Role = "sponsor"
	RoleAdmin          Role = "admin"
)

// AllRoles lists every role an account can hold
var AllRoles = []Role{
	RoleStudent,
	RoleContentCreator,
	RoleValidator,
	RoleCoach,
	RoleSponsor,
	RoleAdmin,
}

// Role groups used as per-route allow-lists
var (
	ContentAuthorRoles = []Role{RoleContentCreator, RoleAdmin}
	ReviewerRoles      = []Role{RoleValidator, RoleAdmin}
	CoachRoles         = []Role{RoleCoach, RoleAdmin}
	SponsorRoles       = []Role{RoleSponsor, RoleAdmin}
	StaffRoles         = []Role{RoleContentCreator, RoleValidator, RoleCoach, RoleAdmin}
	StudentOnly        = []Role{RoleStudent}
	AdminOnly          = []Role{RoleAdmin}
)

// IsValid reports whether the role is one of the known roles
func (r Role) IsValid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
