package domain

// SubjectRole is the role claim carried by an access token.
type SubjectRole string

const (
	SubjectRoleProduction  SubjectRole = "PRODUCTION"
	SubjectRoleMaintenance SubjectRole = "MAINTENANCE"
	SubjectRoleAdmin       SubjectRole = "ADMIN"
)

// Valid reports whether r is a known subject role.
func (r SubjectRole) Valid() bool {
	switch r {
	case SubjectRoleProduction, SubjectRoleMaintenance, SubjectRoleAdmin:
		return true
	}
	return false
}
