package constants

import "fmt"

const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
	RoleParent  = "parent"
)

// Role error message templates
const (
	ErrOnlyAdminsCanAccess       = "Only admins can access %s."
	ErrOnlyStaffCanAccess        = "Only admins or teachers can access %s."
	ErrOnlyFamilyCanAccess       = "Only students or parents can access %s."
	ErrOnlyAuthenticatedCanVisit = "Please sign in to access %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorStaff(feature string) string {
	return fmt.Sprintf(ErrOnlyStaffCanAccess, feature)
}

func RoleErrorFamily(feature string) string {
	return fmt.Sprintf(ErrOnlyFamilyCanAccess, feature)
}

// ==========================
// Grouped Role Slices
// ==========================
var (
	AllRoles = []string{RoleAdmin, RoleTeacher, RoleStudent, RoleParent}

	StaffRoles = []string{RoleAdmin, RoleTeacher}

	AdminOnly = []string{RoleAdmin}

	FamilyRoles = []string{RoleStudent, RoleParent}
)

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
