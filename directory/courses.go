package directory

import (
	"context"
	"strings"

	"enrollment/models"

	"gorm.io/gorm"
)

const (
	msgCourseNameRequired = "Course name is required"
	msgCourseExists       = "Course already exists"
	msgCourseNameTaken    = "A course with this name already exists"
	msgCourseNotFound     = "Course not found"
)

// CourseRegistry manages the set of valid course names.
type CourseRegistry struct {
	db *gorm.DB
}

func NewCourseRegistry(db *gorm.DB, opts ...Option) *CourseRegistry {
	return &CourseRegistry{db: session(db, buildOptions(opts))}
}

// List returns every course ordered by name.
func (r *CourseRegistry) List(ctx context.Context) ([]models.Course, error) {
	courses := []models.Course{}
	if err := r.db.WithContext(ctx).Order("name asc").Order("id asc").Find(&courses).Error; err != nil {
		return nil, translate("list courses", err, msgCourseExists, msgCourseNotFound)
	}
	return courses, nil
}

func (r *CourseRegistry) Get(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		return nil, translate("get course", err, msgCourseExists, msgCourseNotFound)
	}
	return &course, nil
}

// Create adds a course. Names are compared exactly after trimming.
func (r *CourseRegistry) Create(ctx context.Context, name string) (*models.Course, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError(msgCourseNameRequired)
	}

	course := models.Course{Name: name}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := courseNameTaken(tx, name, "")
		if err != nil {
			return err
		}
		if taken {
			return conflictError(msgCourseExists)
		}
		return tx.Create(&course).Error
	})
	if err != nil {
		return nil, translate("create course", err, msgCourseExists, msgCourseNotFound)
	}
	return &course, nil
}

// Rename changes a course's name. Enrollments keep the old name.
func (r *CourseRegistry) Rename(ctx context.Context, id, newName string) (*models.Course, error) {
	newName = strings.TrimSpace(newName)

	var course models.Course
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&course, "id = ?", id).Error; err != nil {
			return err
		}
		if newName == "" {
			return validationError(msgCourseNameRequired)
		}
		taken, err := courseNameTaken(tx, newName, course.ID)
		if err != nil {
			return err
		}
		if taken {
			return conflictError(msgCourseNameTaken)
		}
		course.Name = newName
		return tx.Save(&course).Error
	})
	if err != nil {
		return nil, translate("rename course", err, msgCourseNameTaken, msgCourseNotFound)
	}
	return &course, nil
}

// Delete removes a course. Enrollments referencing its name are untouched.
func (r *CourseRegistry) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Course{}, "id = ?", id)
	if res.Error != nil {
		return translate("delete course", res.Error, msgCourseExists, msgCourseNotFound)
	}
	if res.RowsAffected == 0 {
		return notFoundError(msgCourseNotFound)
	}
	return nil
}

func courseNameTaken(tx *gorm.DB, name, excludeID string) (bool, error) {
	q := tx.Model(&models.Course{}).Where("name = ?", name)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
