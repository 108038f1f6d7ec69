package directory

import (
	"context"
	"strings"

	"enrollment/models"

	"gorm.io/gorm"
)

const (
	msgEnrollmentExists   = "A student with this email is already enrolled in this course"
	msgEnrollmentNotFound = "Student not found"
	msgEmailNotFound      = "No enrollments found for this email"
	msgIDsRequired        = "ids must be a non-empty list"
)

// EnrollmentInput is the payload of a new enrollment. Status may be empty,
// in which case the enrollment starts as Pending.
type EnrollmentInput struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Course string `json:"course"`
	Status string `json:"status"`
}

// EnrollmentPatch holds the fields to change; nil fields are left alone.
type EnrollmentPatch struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Phone  *string `json:"phone"`
	Course *string `json:"course"`
	Status *string `json:"status"`
}

// EnrollmentStore owns enrollment records and the (email, course) rule.
type EnrollmentStore struct {
	db *gorm.DB
}

func NewEnrollmentStore(db *gorm.DB, opts ...Option) *EnrollmentStore {
	return &EnrollmentStore{db: session(db, buildOptions(opts))}
}

func (in EnrollmentInput) build() (*models.Enrollment, error) {
	e := &models.Enrollment{
		Name:   strings.TrimSpace(in.Name),
		Email:  NormalizeEmail(in.Email),
		Phone:  in.Phone,
		Course: strings.TrimSpace(in.Course),
	}
	messages := checkEnrollment(e)
	status, _, err := parseStatusField(in.Status)
	if err != nil {
		messages = append(messages, msgInvalidStatus)
	}
	if len(messages) > 0 {
		return nil, validationError(messages...)
	}
	e.Status = status
	return e, nil
}

func (p EnrollmentPatch) apply(e *models.Enrollment) error {
	if p.Name != nil {
		e.Name = strings.TrimSpace(*p.Name)
	}
	if p.Email != nil {
		e.Email = NormalizeEmail(*p.Email)
	}
	if p.Phone != nil {
		e.Phone = *p.Phone
	}
	if p.Course != nil {
		e.Course = strings.TrimSpace(*p.Course)
	}
	messages := checkEnrollment(e)
	if p.Status != nil {
		status, ok, err := parseStatusField(*p.Status)
		if err != nil {
			messages = append(messages, msgInvalidStatus)
		} else if ok {
			e.Status = status
		}
	}
	if len(messages) > 0 {
		return validationError(messages...)
	}
	return nil
}

// Create validates and stores a new enrollment. The pair check and the
// insert share a transaction; the unique index rejects concurrent races.
func (s *EnrollmentStore) Create(ctx context.Context, in EnrollmentInput) (*models.Enrollment, error) {
	e, err := in.build()
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensurePairFree(tx, e.Email, e.Course, ""); err != nil {
			return err
		}
		return tx.Create(e).Error
	})
	if err != nil {
		return nil, s.translate("create enrollment", err)
	}
	return e, nil
}

func (s *EnrollmentStore) GetByID(ctx context.Context, id string) (*models.Enrollment, error) {
	var e models.Enrollment
	if err := s.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, s.translate("get enrollment", err)
	}
	return &e, nil
}

// GetByEmail returns the student profile for email: all of its enrollments,
// oldest first.
func (s *EnrollmentStore) GetByEmail(ctx context.Context, email string) ([]models.Enrollment, error) {
	var list []models.Enrollment
	err := s.db.WithContext(ctx).
		Where("email = ?", NormalizeEmail(email)).
		Order("created_at asc").Order("id asc").
		Find(&list).Error
	if err != nil {
		return nil, s.translate("get enrollments by email", err)
	}
	if len(list) == 0 {
		return nil, notFoundError(msgEmailNotFound)
	}
	return list, nil
}

// Update applies patch to the enrollment with the given id. The uniqueness
// check only runs when the (email, course) pair changes.
func (s *EnrollmentStore) Update(ctx context.Context, id string, patch EnrollmentPatch) (*models.Enrollment, error) {
	var next models.Enrollment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur models.Enrollment
		if err := tx.First(&cur, "id = ?", id).Error; err != nil {
			return err
		}
		next = cur
		if err := patch.apply(&next); err != nil {
			return err
		}
		if next.Email != cur.Email || next.Course != cur.Course {
			if err := ensurePairFree(tx, next.Email, next.Course, cur.ID); err != nil {
				return err
			}
		}
		return tx.Save(&next).Error
	})
	if err != nil {
		return nil, s.translate("update enrollment", err)
	}
	return &next, nil
}

func (s *EnrollmentStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Enrollment{}, "id = ?", id)
	if res.Error != nil {
		return s.translate("delete enrollment", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFoundError(msgEnrollmentNotFound)
	}
	return nil
}

// BulkDelete removes every enrollment in ids. Unknown ids are ignored.
func (s *EnrollmentStore) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, validationError(msgIDsRequired)
	}
	res := s.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Enrollment{})
	if res.Error != nil {
		return 0, s.translate("bulk delete enrollments", res.Error)
	}
	return res.RowsAffected, nil
}

// BulkSetStatus sets status on every enrollment in ids without touching or
// re-validating other fields. Unknown ids are ignored.
func (s *EnrollmentStore) BulkSetStatus(ctx context.Context, ids []string, status string) (int64, error) {
	var messages []string
	if len(ids) == 0 {
		messages = append(messages, msgIDsRequired)
	}
	st, err := models.ParseStatus(status)
	if err != nil {
		messages = append(messages, msgInvalidStatus)
	}
	if len(messages) > 0 {
		return 0, validationError(messages...)
	}

	res := s.db.WithContext(ctx).Model(&models.Enrollment{}).Where("id IN ?", ids).Update("status", st)
	if res.Error != nil {
		return 0, s.translate("bulk update status", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *EnrollmentStore) translate(op string, err error) error {
	return translate(op, err, msgEnrollmentExists, msgEnrollmentNotFound)
}

func ensurePairFree(tx *gorm.DB, email, course, excludeID string) error {
	q := tx.Model(&models.Enrollment{}).Where("email = ? AND course = ?", email, course)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return conflictError(msgEnrollmentExists)
	}
	return nil
}
