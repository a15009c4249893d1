// Package notify delivers member-facing email.
package notify

import "fmt"

// Kind tags a message so sinks and logs can tell templates apart.
type Kind string

const (
	KindLoginCode Kind = "login_code"
	KindApproved  Kind = "approved"
	KindDeclined  Kind = "declined"
)

// Message is one plain-text email.
type Message struct {
	Kind    Kind
	To      string
	Subject string
	Body    string

	// Code is set on login code messages so test sinks can read it back
	// without parsing the body.
	Code string
}

// LoginCode is sent in response to a login request.
func LoginCode(to, code string) Message {
	return Message{
		Kind:    KindLoginCode,
		To:      to,
		Subject: "رمز تسجيل الدخول",
		Body: fmt.Sprintf(
			"رمز تسجيل الدخول الخاص بك هو\n\n%s\n\nتنتهي صلاحية الرمز بعد 5 دقائق.",
			code,
		),
		Code: code,
	}
}

// Approved is sent once a moderator accepts the applicant.
func Approved(to string) Message {
	return Message{
		Kind:    KindApproved,
		To:      to,
		Subject: "تم قبول تسجيلك",
		Body: "تمت الموافقة على طلبك للانضمام إلى الفريق التطوعي من قبل أحد رؤساء الأقسام. " +
			"توجه إلى موقع الفريق وقم بتسجيل الدخول.\n\nأهلا بك معنا!",
	}
}

// Declined is sent to the captured address after a rejection.
func Declined(to string) Message {
	return Message{
		Kind:    KindDeclined,
		To:      to,
		Subject: "تم رفض تسجيلك",
		Body: "نعتذر، تم رفض طلبك للانضمام إلى الفريق التطوعي من قبل أحد رؤساء الأقسام. " +
			"إن كنت تعتقد بوجود خطأ فتواصل مع أحدهم ثم أعد التسجيل.\n\nنتمنى لك التوفيق",
	}
}
