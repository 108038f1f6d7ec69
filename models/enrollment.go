package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Enrollment is one (student, course) record. There is no separate student
// table: a student's profile is every enrollment sharing the same email.
type Enrollment struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name       string    `json:"name" gorm:"type:varchar(255);not null;index:idx_enrollment_name"`
	NameFolded string    `json:"-" gorm:"type:varchar(255);not null;default:'';index:idx_enrollment_name_folded"` // search key, see FoldName
	Email      string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex:idx_enrollment_email_course,priority:1"`
	Phone      string    `json:"phone" gorm:"type:varchar(32);not null"`
	Course     string    `json:"course" gorm:"type:varchar(255);not null;uniqueIndex:idx_enrollment_email_course,priority:2;index:idx_enrollment_course"`
	Status     Status    `json:"status" gorm:"type:varchar(16);not null;index:idx_enrollment_status"`
	CreatedAt  time.Time `json:"createdAt" gorm:"index:idx_enrollment_created_at"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// BeforeSave keeps NameFolded in step with Name. Column updates that leave
// Name unset, such as a bulk status change, keep the stored value.
func (e *Enrollment) BeforeSave(tx *gorm.DB) error {
	if e.Name != "" {
		e.NameFolded = FoldName(e.Name)
	}
	return nil
}

// FoldName is the case folding applied to names for search. It runs in Go
// rather than SQL because SQLite's LOWER only folds ASCII.
func FoldName(name string) string {
	return strings.ToLower(name)
}
