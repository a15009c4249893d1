package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/aussiebroadwan/roster/internal/roster/domain"
	"github.com/aussiebroadwan/roster/internal/roster/media"
	"github.com/aussiebroadwan/roster/internal/roster/store"
	"github.com/aussiebroadwan/roster/pkg/idx"
	"github.com/aussiebroadwan/roster/pkg/slogx"
	"github.com/aussiebroadwan/roster/pkg/textx"
)

var (
	arabicNameRe     = regexp.MustCompile(`^[\x{0600}-\x{06FF}]+$`)
	arabicFourNameRe = regexp.MustCompile(`^[\x{0600}-\x{06FF}]+ [\x{0600}-\x{06FF}]+ [\x{0600}-\x{06FF}]+ [\x{0600}-\x{06FF}]+$`)
	phoneRe          = regexp.MustCompile(`^07\d{9}$`)
	addressRe        = regexp.MustCompile(`^[\x{0600}-\x{06FF}\s]+ - [\x{0600}-\x{06FF}\s]+ - [\x{0600}-\x{06FF}\s]+$`)
)

// Signup document fields, in form order.
const (
	FieldIDCardFront      = "id_card_front"
	FieldIDCardBack       = "id_card_back"
	FieldResidenceIDFront = "residence_id_front"
	FieldResidenceIDBack  = "residence_id_back"
	FieldPersonalImage    = "personal_image"
)

// DocumentFields lists the five images every applicant uploads.
var DocumentFields = []string{
	FieldIDCardFront, FieldIDCardBack, FieldResidenceIDFront, FieldResidenceIDBack, FieldPersonalImage,
}

// SignupInput is an application as submitted.
type SignupInput struct {
	FirstName      string
	LastName       string
	ThirdName      string
	FourthName     string
	MotherFullName string

	Email       string
	PhoneNumber string
	Address     string
	DateOfBirth string

	Gender              string
	AcademicAchievement string
	MaritalStatus       string
	StudyingDepartment  string
	Stage               string
	StudyingShift       string
	SkillsAndExp        string

	DepartmentIDs []string

	// Documents maps each of DocumentFields to its upload.
	Documents map[string]*media.Upload
}

type SignupService struct {
	Store store.Store
	Media media.Store
	Clock Clock
}

// Signup validates and stores a pending application. The new member has no
// credential until a moderator approves them.
func (s *SignupService) Signup(ctx context.Context, in SignupInput) (domain.Member, error) {
	l := slogx.FromContext(ctx)

	// 1. Field validation
	in.normalize()
	verr := in.validate()

	// 2. Checks that need the store
	if !verr.Has("email") {
		exists, err := s.Store.Members().EmailExists(ctx, in.Email)
		if err != nil {
			return domain.Member{}, err
		}
		if exists {
			verr.Add("email", "a member with this email already exists")
		}
	}
	if len(in.DepartmentIDs) > 0 {
		found, err := s.Store.Departments().ExistingIDs(ctx, in.DepartmentIDs)
		if err != nil {
			return domain.Member{}, err
		}
		if len(found) != len(dedupe(in.DepartmentIDs)) {
			verr.Add("activity_department", "unknown department")
		}
	}
	if err := verr.OrNil(); err != nil {
		return domain.Member{}, err
	}

	now := s.Clock.now()
	m := domain.Member{
		ID:                  idx.NewAt(now).String(),
		Email:               in.Email,
		FirstName:           in.FirstName,
		LastName:            in.LastName,
		ThirdName:           in.ThirdName,
		FourthName:          in.FourthName,
		MotherFullName:      in.MotherFullName,
		DateOfBirth:         in.DateOfBirth,
		PhoneNumber:         in.PhoneNumber,
		Address:             in.Address,
		Gender:              in.Gender,
		AcademicAchievement: in.AcademicAchievement,
		MaritalStatus:       in.MaritalStatus,
		StudyingDepartment:  in.StudyingDepartment,
		Stage:               in.Stage,
		StudyingShift:       in.StudyingShift,
		SkillsAndExp:        in.SkillsAndExp,
		Settings:            domain.Settings{},
		DateJoined:          now,
		DepartmentIDs:       dedupe(in.DepartmentIDs),
	}

	username, err := s.uniqueUsername(ctx, in.Email)
	if err != nil {
		return domain.Member{}, err
	}
	m.Username = username

	// 3. Store the documents
	prefix := media.MemberPrefix(m.ID)
	refs := make(map[string]string, len(DocumentFields))
	for _, field := range DocumentFields {
		ref, err := media.SaveImage(ctx, s.Media, prefix, in.Documents[field])
		if err != nil {
			s.cleanupMedia(ctx, prefix)
			return domain.Member{}, fmt.Errorf("store %s: %w", field, err)
		}
		refs[field] = ref
	}
	m.Documents = domain.Documents{
		IDCardFront:      refs[FieldIDCardFront],
		IDCardBack:       refs[FieldIDCardBack],
		ResidenceIDFront: refs[FieldResidenceIDFront],
		ResidenceIDBack:  refs[FieldResidenceIDBack],
		PersonalImage:    refs[FieldPersonalImage],
	}

	// 4. Member row and department links in one transaction
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		return tx.Members().CreateMember(ctx, m)
	})
	if err != nil {
		s.cleanupMedia(ctx, prefix)
		if errors.Is(err, store.ErrAlreadyExists) {
			// lost a race on email or username
			return domain.Member{}, ErrConflict
		}
		l.Error("failed to create member", slog.Any("error", err))
		return domain.Member{}, err
	}

	l.Info("signup received", slog.String("member_id", m.ID), slog.Any("departments", m.DepartmentIDs))
	return m, nil
}

// uniqueUsername derives the username from the email local part, suffixing
// a counter on collision.
func (s *SignupService) uniqueUsername(ctx context.Context, email string) (string, error) {
	base, _, _ := strings.Cut(email, "@")
	base = strings.ToLower(base)
	candidate := base
	for i := 2; ; i++ {
		exists, err := s.Store.Members().UsernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
}

func (s *SignupService) cleanupMedia(ctx context.Context, prefix string) {
	if err := s.Media.DeletePrefix(ctx, prefix); err != nil {
		slogx.FromContext(ctx).Warn("failed to remove signup media",
			slog.Any("error", err), slog.String("prefix", prefix))
	}
}

func (in *SignupInput) normalize() {
	for _, f := range []*string{
		&in.FirstName, &in.LastName, &in.ThirdName, &in.FourthName, &in.MotherFullName,
		&in.Email, &in.PhoneNumber, &in.Address, &in.DateOfBirth,
		&in.Gender, &in.AcademicAchievement, &in.MaritalStatus,
		&in.StudyingDepartment, &in.Stage, &in.StudyingShift,
	} {
		*f = strings.TrimSpace(*f)
	}
	in.SkillsAndExp = textx.Sanitize(in.SkillsAndExp)
	if in.DateOfBirth == "" {
		in.DateOfBirth = domain.DefaultDateOfBirth
	}

	depts := in.DepartmentIDs[:0:0]
	for _, d := range in.DepartmentIDs {
		if d = strings.TrimSpace(d); d != "" {
			depts = append(depts, d)
		}
	}
	in.DepartmentIDs = depts
}

func (in *SignupInput) validate() *ValidationError {
	v := NewValidationError()

	for field, value := range map[string]string{
		"first_name":  in.FirstName,
		"last_name":   in.LastName,
		"third_name":  in.ThirdName,
		"fourth_name": in.FourthName,
	} {
		if !arabicNameRe.MatchString(value) || textx.Length(value) > 50 {
			v.Add(field, "must be a single Arabic name")
		}
	}
	if !arabicFourNameRe.MatchString(in.MotherFullName) || textx.Length(in.MotherFullName) > 200 {
		v.Add("mother_full_name", "must be four Arabic names separated by single spaces")
	}
	if !phoneRe.MatchString(in.PhoneNumber) {
		v.Add("phone_number", "must be 11 digits starting with 07")
	}
	if !addressRe.MatchString(in.Address) || textx.Length(in.Address) > 200 {
		v.Add("address", "must be written as: governorate - city - area")
	}
	if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
		v.Add("email", "must be a valid email address")
	}
	if _, err := time.Parse(time.DateOnly, in.DateOfBirth); err != nil {
		v.Add("date_of_birth", "must be formatted YYYY-MM-DD")
	}

	// Study details are optional since graduates have none.
	choices := []struct {
		field    string
		value    string
		set      map[string]string
		optional bool
	}{
		{"gender", in.Gender, domain.Genders, false},
		{"academic_achievement", in.AcademicAchievement, domain.AcademicAchievements, false},
		{"marital_status", in.MaritalStatus, domain.MaritalStatuses, false},
		{"studying_department", in.StudyingDepartment, domain.StudyingDepartments, true},
		{"stage", in.Stage, domain.Stages, true},
		{"studying_shift", in.StudyingShift, domain.StudyingShifts, true},
	}
	for _, c := range choices {
		if c.optional && c.value == "" {
			continue
		}
		if _, ok := c.set[c.value]; !ok {
			v.Add(c.field, fmt.Sprintf("%q is not a valid choice", c.value))
		}
	}

	for _, field := range DocumentFields {
		if _, err := media.ValidateImage(in.Documents[field]); err != nil {
			v.Add(field, imageError(err))
		}
	}
	return v
}

func imageError(err error) string {
	switch {
	case errors.Is(err, media.ErrMissing):
		return "this file is required"
	case errors.Is(err, media.ErrTooLarge):
		return "image must not exceed 5 MiB"
	case errors.Is(err, media.ErrNotAnImage):
		return "must be a jpeg, png, gif or webp image"
	default:
		return "could not read the uploaded file"
	}
}

// dedupe keeps the first occurrence of every value.
func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
