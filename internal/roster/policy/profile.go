package policy

import "github.com/aussiebroadwan/roster/internal/roster/domain"

// Profile is the rendered view of a member. Fields left empty are omitted
// from the JSON form, which is how hidden fields disappear.
type Profile struct {
	ID                  string `json:"id"`
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	ThirdName           string `json:"third_name,omitempty"`
	FourthName          string `json:"fourth_name,omitempty"`
	MotherFullName      string `json:"mother_full_name,omitempty"`
	DateOfBirth         string `json:"date_of_birth,omitempty"`
	PhoneNumber         string `json:"phone_number,omitempty"`
	Email               string `json:"email,omitempty"`
	Address             string `json:"address,omitempty"`
	Gender              string `json:"gender,omitempty"`
	MaritalStatus       string `json:"marital_status,omitempty"`
	SkillsAndExp        string `json:"skills_and_exp"`
	AcademicAchievement string `json:"academic_achievement"`
	StudyingDepartment  string `json:"studying_department"`
	Stage               string `json:"stage"`
	StudyingShift       string `json:"studying_shift"`
	IDCardFront         string `json:"id_card_front,omitempty"`
	IDCardBack          string `json:"id_card_back,omitempty"`
	ResidenceIDFront    string `json:"residence_id_front,omitempty"`
	ResidenceIDBack     string `json:"residence_id_back,omitempty"`
	PersonalImage       string `json:"personal_image,omitempty"`
	Score               int64  `json:"score"`
	IsMod               string `json:"is_mod,omitempty"`
	IsModOf             string `json:"is_mod_of,omitempty"`
}

// PublicProfile renders the fields any viewer may see, dropping those the
// member switched off in their settings.
func PublicProfile(target domain.Member, seat *domain.Moderator) Profile {
	p := Profile{
		ID:                  target.ID,
		FirstName:           target.FirstName,
		LastName:            target.LastName,
		SkillsAndExp:        target.SkillsAndExp,
		AcademicAchievement: target.AcademicAchievement,
		StudyingDepartment:  target.StudyingDepartment,
		Stage:               target.Stage,
		StudyingShift:       target.StudyingShift,
		Score:               target.Score,
	}
	if target.Settings.Shows("date_of_birth") {
		p.DateOfBirth = target.DateOfBirth
	}
	if target.Settings.Shows("personal_image") {
		p.PersonalImage = target.Documents.PersonalImage
	}
	p.withSeat(seat)
	return p
}

// AdminProfile renders every field including documents and contact details.
func AdminProfile(target domain.Member, seat *domain.Moderator) Profile {
	p := Profile{
		ID:                  target.ID,
		FirstName:           target.FirstName,
		LastName:            target.LastName,
		ThirdName:           target.ThirdName,
		FourthName:          target.FourthName,
		MotherFullName:      target.MotherFullName,
		DateOfBirth:         target.DateOfBirth,
		PhoneNumber:         target.PhoneNumber,
		Email:               target.Email,
		Address:             target.Address,
		Gender:              target.Gender,
		MaritalStatus:       target.MaritalStatus,
		SkillsAndExp:        target.SkillsAndExp,
		AcademicAchievement: target.AcademicAchievement,
		StudyingDepartment:  target.StudyingDepartment,
		Stage:               target.Stage,
		StudyingShift:       target.StudyingShift,
		IDCardFront:         target.Documents.IDCardFront,
		IDCardBack:          target.Documents.IDCardBack,
		ResidenceIDFront:    target.Documents.ResidenceIDFront,
		ResidenceIDBack:     target.Documents.ResidenceIDBack,
		PersonalImage:       target.Documents.PersonalImage,
		Score:               target.Score,
	}
	p.withSeat(seat)
	return p
}

// ProfileFor picks the admin view for staff and the public view otherwise.
func ProfileFor(a Actor, target domain.Member, seat *domain.Moderator) Profile {
	if a.IsStaff() {
		return AdminProfile(target, seat)
	}
	return PublicProfile(target, seat)
}

func (p *Profile) withSeat(seat *domain.Moderator) {
	if seat == nil {
		return
	}
	p.IsMod = string(seat.Rank)
	p.IsModOf = seat.DepartmentTitle
}

// MapImages rewrites every image reference with fn, typically to turn
// stored media references into URLs.
func (p *Profile) MapImages(fn func(string) string) {
	for _, ref := range []*string{
		&p.IDCardFront, &p.IDCardBack, &p.ResidenceIDFront, &p.ResidenceIDBack, &p.PersonalImage,
	} {
		if *ref != "" {
			*ref = fn(*ref)
		}
	}
}
