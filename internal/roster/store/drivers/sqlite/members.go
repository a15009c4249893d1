package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/aussiebroadwan/roster/internal/roster/domain"
)

type membersRepo struct {
	db DBTX
}

const memberColumns = `
	id, email, username,
	first_name, last_name, third_name, fourth_name, mother_full_name,
	date_of_birth, phone_number, address,
	gender, academic_achievement, marital_status, studying_department, stage, studying_shift,
	skills_and_exp,
	id_card_front, id_card_back, residence_id_front, residence_id_back, personal_image,
	otp_hash, otp_issued_at, settings, score, is_staff, is_superuser, date_joined, last_login`

const summaryColumns = `
	m.id, m.first_name, m.last_name, m.third_name, m.fourth_name, m.email, m.personal_image, m.settings`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (domain.Member, error) {
	var (
		m           domain.Member
		otpHash     sql.NullString
		otpIssuedAt sql.NullInt64
		settings    string
		dateJoined  int64
		lastLogin   sql.NullInt64
	)
	err := row.Scan(
		&m.ID, &m.Email, &m.Username,
		&m.FirstName, &m.LastName, &m.ThirdName, &m.FourthName, &m.MotherFullName,
		&m.DateOfBirth, &m.PhoneNumber, &m.Address,
		&m.Gender, &m.AcademicAchievement, &m.MaritalStatus, &m.StudyingDepartment, &m.Stage, &m.StudyingShift,
		&m.SkillsAndExp,
		&m.Documents.IDCardFront, &m.Documents.IDCardBack,
		&m.Documents.ResidenceIDFront, &m.Documents.ResidenceIDBack, &m.Documents.PersonalImage,
		&otpHash, &otpIssuedAt, &settings, &m.Score, &m.IsStaff, &m.IsSuperuser, &dateJoined, &lastLogin,
	)
	if err != nil {
		return domain.Member{}, err
	}

	m.OTP = domain.OTP{CodeHash: mapNullString(otpHash), IssuedAt: mapNullMillis(otpIssuedAt)}
	m.Settings = decodeSettings(settings)
	m.DateJoined = fromMillis(dateJoined)
	m.LastLogin = mapNullMillis(lastLogin)
	return m, nil
}

func scanSummary(row rowScanner) (domain.MemberSummary, error) {
	var (
		s        domain.MemberSummary
		settings string
	)
	if err := row.Scan(&s.ID, &s.FirstName, &s.LastName, &s.ThirdName, &s.FourthName,
		&s.Email, &s.PersonalImage, &settings); err != nil {
		return domain.MemberSummary{}, err
	}
	s.Settings = decodeSettings(settings)
	return s, nil
}

// decodeSettings tolerates a corrupt column by falling back to no overrides.
func decodeSettings(raw string) domain.Settings {
	var s domain.Settings
	if err := json.Unmarshal([]byte(raw), &s); err != nil || s == nil {
		return domain.Settings{}
	}
	return s
}

func encodeSettings(s domain.Settings) (string, error) {
	if s == nil {
		return "{}", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *membersRepo) CreateMember(ctx context.Context, m domain.Member) error {
	settings, err := encodeSettings(m.Settings)
	if err != nil {
		return err
	}
	if m.DateOfBirth == "" {
		m.DateOfBirth = domain.DefaultDateOfBirth
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO members (`+memberColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Email, m.Username,
		m.FirstName, m.LastName, m.ThirdName, m.FourthName, m.MotherFullName,
		m.DateOfBirth, m.PhoneNumber, m.Address,
		m.Gender, m.AcademicAchievement, m.MaritalStatus, m.StudyingDepartment, m.Stage, m.StudyingShift,
		m.SkillsAndExp,
		m.Documents.IDCardFront, m.Documents.IDCardBack,
		m.Documents.ResidenceIDFront, m.Documents.ResidenceIDBack, m.Documents.PersonalImage,
		mapStringNull(m.OTP.CodeHash), mapOptionalMillis(m.OTP.IssuedAt),
		settings, m.Score, m.IsStaff, m.IsSuperuser, toMillis(m.DateJoined), mapOptionalMillis(m.LastLogin),
	)
	if err != nil {
		return mapConstraint(err)
	}

	for _, dept := range dedupe(m.DepartmentIDs) {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO member_departments (member_id, department_id) VALUES (?, ?)`,
			m.ID, dept,
		); err != nil {
			return mapConstraint(err)
		}
	}
	return nil
}

func (r *membersRepo) GetMemberByID(ctx context.Context, id string) (domain.Member, error) {
	return r.getMember(ctx, `SELECT `+memberColumns+` FROM members WHERE id = ?`, id)
}

func (r *membersRepo) GetMemberByEmail(ctx context.Context, email string) (domain.Member, error) {
	return r.getMember(ctx, `SELECT `+memberColumns+` FROM members WHERE email = ? COLLATE NOCASE`,
		strings.TrimSpace(email))
}

func (r *membersRepo) getMember(ctx context.Context, query string, arg string) (domain.Member, error) {
	m, err := scanMember(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		return domain.Member{}, mapNotFound(err)
	}

	m.DepartmentIDs, err = r.departmentIDs(ctx, m.ID)
	if err != nil {
		return domain.Member{}, err
	}
	return m, nil
}

func (r *membersRepo) departmentIDs(ctx context.Context, memberID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT department_id FROM member_departments WHERE member_id = ? ORDER BY department_id`,
		memberID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *membersRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM members WHERE email = ? COLLATE NOCASE)`,
		strings.TrimSpace(email))
}

func (r *membersRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM members WHERE username = ?)`, username)
}

func (r *membersRepo) HasSuperuser(ctx context.Context) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM members WHERE is_superuser = 1)`)
}

func (r *membersRepo) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var ok bool
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *membersRepo) SetOTP(ctx context.Context, memberID string, otp domain.OTP) error {
	return r.execOne(ctx,
		`UPDATE members SET otp_hash = ?, otp_issued_at = ? WHERE id = ?`,
		mapStringNull(otp.CodeHash), mapOptionalMillis(otp.IssuedAt), memberID,
	)
}

func (r *membersRepo) ConsumeOTP(ctx context.Context, memberID string, issuedAt time.Time) (bool, error) {
	return r.affected(ctx,
		`UPDATE members SET otp_hash = NULL, otp_issued_at = NULL
		 WHERE id = ? AND otp_issued_at = ?`,
		memberID, toMillis(issuedAt),
	)
}

func (r *membersRepo) Approve(ctx context.Context, memberID string, at time.Time) (bool, error) {
	return r.affected(ctx,
		`UPDATE members SET last_login = ? WHERE id = ? AND last_login IS NULL`,
		toMillis(at), memberID,
	)
}

func (r *membersRepo) DeletePending(ctx context.Context, memberID string) (bool, error) {
	return r.affected(ctx, `DELETE FROM members WHERE id = ? AND last_login IS NULL`, memberID)
}

func (r *membersRepo) DeleteStalePending(ctx context.Context, cutoff time.Time) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`DELETE FROM members WHERE last_login IS NULL AND date_joined <= ? RETURNING id`,
		toMillis(cutoff),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *membersRepo) UpdateSettings(ctx context.Context, memberID string, s domain.Settings) error {
	raw, err := encodeSettings(s)
	if err != nil {
		return err
	}
	return r.execOne(ctx, `UPDATE members SET settings = ? WHERE id = ?`, raw, memberID)
}

func (r *membersRepo) SetStaff(ctx context.Context, memberID string, staff bool) error {
	return r.execOne(ctx, `UPDATE members SET is_staff = ? WHERE id = ?`, staff, memberID)
}

func (r *membersRepo) ExistingIDs(ctx context.Context, ids []string) ([]string, error) {
	return existingIDs(ctx, r.db, `SELECT id FROM members WHERE id IN (/*IDS*/)`, ids)
}

func (r *membersRepo) AddScore(ctx context.Context, ids []string, delta int64) error {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil
	}
	ph, args := placeholders(ids)
	_, err := r.db.ExecContext(ctx,
		`UPDATE members SET score = score + ? WHERE id IN (`+ph+`)`,
		append([]any{delta}, args...)...,
	)
	return err
}

func (r *membersRepo) Search(ctx context.Context, query string, limit int) ([]domain.MemberSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" || limit <= 0 {
		return nil, nil
	}
	pattern := "%" + escapeLike(query) + "%"

	rows, err := r.db.QueryContext(ctx, `SELECT `+summaryColumns+`
		FROM members m
		WHERE m.last_login IS NOT NULL
		  AND (m.first_name LIKE ?1 ESCAPE '\'
		    OR m.last_name LIKE ?1 ESCAPE '\'
		    OR m.third_name LIKE ?1 ESCAPE '\'
		    OR m.fourth_name LIKE ?1 ESCAPE '\')
		ORDER BY m.id
		LIMIT ?2`,
		pattern, limit,
	)
	if err != nil {
		return nil, err
	}
	return collectSummaries(rows)
}

func (r *membersRepo) ListPending(ctx context.Context, departmentIDs []string) ([]domain.MemberSummary, error) {
	departmentIDs = dedupe(departmentIDs)
	if len(departmentIDs) == 0 {
		return nil, nil
	}
	ph, args := placeholders(departmentIDs)

	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT `+summaryColumns+`
		FROM members m
		JOIN member_departments md ON md.member_id = m.id
		WHERE m.last_login IS NULL AND md.department_id IN (`+ph+`)
		ORDER BY m.date_joined, m.id`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	return collectSummaries(rows)
}

func collectSummaries(rows *sql.Rows) ([]domain.MemberSummary, error) {
	defer rows.Close()

	var out []domain.MemberSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// execOne runs an update that must touch exactly one row.
func (r *membersRepo) execOne(ctx context.Context, query string, args ...any) error {
	ok, err := r.affected(ctx, query, args...)
	if err != nil {
		return err
	}
	if !ok {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}

func (r *membersRepo) affected(ctx context.Context, query string, args ...any) (bool, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
