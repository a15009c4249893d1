package domain

// BootstrapData describes the first superuser. The remaining profile fields
// can be filled in later; the account skips the signup form.
type BootstrapData struct {
	Email         string
	FirstName     string
	LastName      string
	DepartmentIDs []string
}
