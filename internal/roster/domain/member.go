package domain

import (
	"strings"
	"time"
)

// Scopes carried in access tokens.
const (
	ScopeMember    = "member"
	ScopeStaff     = "staff"
	ScopeSuperuser = "superuser"
)

// Member is an applicant or an approved volunteer. LastLogin doubles as the
// approval flag: nil means the member is still pending.
type Member struct {
	ID       string
	Email    string
	Username string

	FirstName      string
	LastName       string
	ThirdName      string
	FourthName     string
	MotherFullName string

	DateOfBirth string // YYYY-MM-DD
	PhoneNumber string
	Address     string

	Gender              string
	AcademicAchievement string
	MaritalStatus       string
	StudyingDepartment  string
	Stage               string
	StudyingShift       string
	SkillsAndExp        string

	Documents Documents

	OTP      OTP
	Settings Settings
	Score    int64

	IsStaff     bool
	IsSuperuser bool

	DateJoined time.Time
	LastLogin  *time.Time

	DepartmentIDs []string
}

// Documents holds media references of the identity images supplied at signup.
type Documents struct {
	IDCardFront      string
	IDCardBack       string
	ResidenceIDFront string
	ResidenceIDBack  string
	PersonalImage    string
}

// IsApproved reports whether a moderator has accepted the member.
func (m Member) IsApproved() bool { return m.LastLogin != nil }

// DisplayName joins the first two name segments.
func (m Member) DisplayName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// Scopes derives the token scopes from the member flags.
func (m Member) Scopes() []string {
	scopes := []string{ScopeMember}
	if m.IsStaff || m.IsSuperuser {
		scopes = append(scopes, ScopeStaff)
	}
	if m.IsSuperuser {
		scopes = append(scopes, ScopeSuperuser)
	}
	return scopes
}

// InDepartment reports whether the member declared departmentID.
func (m Member) InDepartment(departmentID string) bool {
	for _, id := range m.DepartmentIDs {
		if id == departmentID {
			return true
		}
	}
	return false
}

// MemberSummary is the trimmed projection used by search and pending lists.
type MemberSummary struct {
	ID            string
	FirstName     string
	LastName      string
	ThirdName     string
	FourthName    string
	Email         string
	PersonalImage string
	Settings      Settings
}

// Choice sets for the enumerated profile fields, code to label.
var (
	Genders = map[string]string{
		"M": "Male",
		"F": "Female",
	}
	AcademicAchievements = map[string]string{
		"S": "Student",
		"G": "Graduate",
	}
	MaritalStatuses = map[string]string{
		"V": "Single",
		"M": "Married",
		"D": "Divorced",
		"W": "Widowed",
	}
	StudyingDepartments = map[string]string{
		"C": "Computer Science",
		"I": "Information Systems",
		"S": "Cyber Security",
		"D": "Intelligent Medical Systems",
	}
	Stages = map[string]string{
		"1": "First",
		"2": "Second",
		"3": "Third",
		"4": "Fourth",
	}
	StudyingShifts = map[string]string{
		"A": "Morning",
		"P": "Evening",
	}
)

// DefaultDateOfBirth is used when signup omits the date of birth.
const DefaultDateOfBirth = "2000-01-01"
