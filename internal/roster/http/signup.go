package http

import (
	"net/http"

	"github.com/aussiebroadwan/roster/internal/roster/media"
	"github.com/aussiebroadwan/roster/internal/roster/service"
	"github.com/aussiebroadwan/roster/pkg/httpx"
	"github.com/aussiebroadwan/roster/pkg/rostersdk"
)

type SignupHandler struct {
	Signup *service.SignupService
}

// ServeHTTP accepts a membership application.
//
//	@Summary		Apply for membership
//	@Description	Creates a pending member from the application form and its five identity documents. Departments are sent as repeated activity_department fields.
//	@Tags			Signup
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			first_name			formData	string	true	"First name (Arabic letters)"
//	@Param			last_name			formData	string	true	"Last name (Arabic letters)"
//	@Param			third_name			formData	string	true	"Third name (Arabic letters)"
//	@Param			fourth_name			formData	string	true	"Fourth name (Arabic letters)"
//	@Param			mother_full_name	formData	string	true	"Mother's four part name"
//	@Param			email				formData	string	true	"Email"
//	@Param			phone_number		formData	string	true	"Phone, 07 followed by nine digits"
//	@Param			address				formData	string	true	"Address, three parts separated by ' - '"
//	@Param			date_of_birth		formData	string	false	"YYYY-MM-DD"
//	@Param			gender				formData	string	true	"M or F"
//	@Param			activity_department	formData	[]string	true	"Department ids"	collectionFormat(multi)
//	@Param			id_card_front		formData	file	true	"Document image"
//	@Param			id_card_back		formData	file	true	"Document image"
//	@Param			residence_id_front	formData	file	true	"Document image"
//	@Param			residence_id_back	formData	file	true	"Document image"
//	@Param			personal_image		formData	file	true	"Document image"
//	@Success		201					{object}	rostersdk.SignupResponse	"Pending member created"
//	@Failure		400					{object}	rostersdk.ErrorResponse		"Validation failed"
//	@Router			/v1/signup [post].
func (h *SignupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// 1. Parse form
	if !parseMultipart(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	// 2. Map to service input
	in := service.SignupInput{
		FirstName:           r.FormValue("first_name"),
		LastName:            r.FormValue("last_name"),
		ThirdName:           r.FormValue("third_name"),
		FourthName:          r.FormValue("fourth_name"),
		MotherFullName:      r.FormValue("mother_full_name"),
		Email:               r.FormValue("email"),
		PhoneNumber:         r.FormValue("phone_number"),
		Address:             r.FormValue("address"),
		DateOfBirth:         r.FormValue("date_of_birth"),
		Gender:              r.FormValue("gender"),
		AcademicAchievement: r.FormValue("academic_achievement"),
		MaritalStatus:       r.FormValue("marital_status"),
		StudyingDepartment:  r.FormValue("studying_department"),
		Stage:               r.FormValue("stage"),
		StudyingShift:       r.FormValue("studying_shift"),
		SkillsAndExp:        r.FormValue("skills_and_exp"),
		DepartmentIDs:       formValues(r, "activity_department"),
		Documents:           make(map[string]*media.Upload, len(service.DocumentFields)),
	}
	for _, field := range service.DocumentFields {
		if u := formFile(r, field); u != nil {
			in.Documents[field] = u
		}
	}

	// 3. Create the pending member
	m, err := h.Signup.Signup(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusCreated, rostersdk.SignupResponse{
		MemberID: m.ID,
		Username: m.Username,
	})
}
