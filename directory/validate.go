package directory

import (
	"errors"
	"regexp"
	"strings"

	"enrollment/models"

	"github.com/go-playground/validator/v10"
)

var (
	emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
	digitsOnly   = regexp.MustCompile(`^\d+$`)
)

const msgInvalidStatus = "Status must be Pending, Active, or Completed"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("enrollment_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		return digitsOnly.MatchString(fl.Field().String())
	})
	return v
}

// enrollmentFields carries the validation rules for a stored enrollment.
type enrollmentFields struct {
	Name   string `validate:"required"`
	Email  string `validate:"required,enrollment_email"`
	Phone  string `validate:"required,digits"`
	Course string `validate:"required"`
}

var fieldMessages = map[string]string{
	"Name.required":          "Name is required",
	"Email.required":         "Email is required",
	"Email.enrollment_email": "Please enter a valid email address",
	"Phone.required":         "Phone number is required",
	"Phone.digits":           "Phone number must contain digits only",
	"Course.required":        "Course is required",
}

// checkEnrollment returns the field-level messages for e, in field order.
func checkEnrollment(e *models.Enrollment) []string {
	err := validate.Struct(enrollmentFields{
		Name:   e.Name,
		Email:  e.Email,
		Phone:  e.Phone,
		Course: e.Course,
	})
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		messages = append(messages, msg)
	}
	return messages
}

// parseStatusField treats an empty value as "not supplied".
func parseStatusField(v string) (models.Status, bool, error) {
	if v == "" {
		return models.StatusPending, false, nil
	}
	s, err := models.ParseStatus(v)
	if err != nil {
		return models.StatusPending, false, err
	}
	return s, true, nil
}

// NormalizeEmail is the canonical form used for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
