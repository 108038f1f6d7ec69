package directory

import (
	"context"
	"strings"

	"enrollment/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SortOrder is the direction of the primary sort key.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

const (
	DefaultPage      = 1
	DefaultPageSize  = 10
	DefaultSortField = "createdAt"
)

// sortColumns maps accepted sort field names to columns. Both the JSON
// names and the column names are accepted.
var sortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"email":      "email",
	"phone":      "phone",
	"course":     "course",
	"status":     "status",
	"createdAt":  "created_at",
	"created_at": "created_at",
	"updatedAt":  "updated_at",
	"updated_at": "updated_at",
}

// Query is a directory listing request.
type Query struct {
	// Search is a case-insensitive substring matched against name.
	Search string
	// Course, when set, keeps only enrollments in exactly that course.
	Course    string
	SortField string
	SortOrder SortOrder
	Page      int
	PageSize  int
}

// Page is one slice of a directory listing.
type Page struct {
	Items      []models.Enrollment `json:"items"`
	Page       int                 `json:"page"`
	TotalPages int                 `json:"totalPages"`
	Total      int64               `json:"total"`
}

// Normalized fills in defaults for missing or out-of-range values.
func (q Query) Normalized() Query {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.SortField == "" {
		q.SortField = DefaultSortField
	}
	if strings.EqualFold(string(q.SortOrder), string(SortAsc)) {
		q.SortOrder = SortAsc
	} else {
		q.SortOrder = SortDesc
	}
	return q
}

// filter applies search and course as AND-combined predicates.
func (q Query) filter(db *gorm.DB) *gorm.DB {
	if q.Search != "" {
		db = db.Where("name_folded LIKE ? ESCAPE '!'", "%"+escapeLike(models.FoldName(q.Search))+"%")
	}
	if q.Course != "" {
		db = db.Where("course = ?", q.Course)
	}
	return db
}

// order sorts by the requested field with id as the final tie-break. An
// unknown field contributes no ordering key, leaving only the tie-break.
func (q Query) order(db *gorm.DB) *gorm.DB {
	var columns []clause.OrderByColumn
	if col, ok := sortColumns[q.SortField]; ok && col != "id" {
		columns = append(columns, clause.OrderByColumn{
			Column: clause.Column{Name: col},
			Desc:   q.SortOrder == SortDesc,
		})
	}
	columns = append(columns, clause.OrderByColumn{
		Column: clause.Column{Name: "id"},
		Desc:   q.SortField == "id" && q.SortOrder == SortDesc,
	})
	return db.Order(clause.OrderBy{Columns: columns})
}

func (q Query) paginate(db *gorm.DB) *gorm.DB {
	return db.Offset((q.Page - 1) * q.PageSize).Limit(q.PageSize)
}

// List runs q against the enrollment set. A page past the end yields no
// items rather than an error.
func (s *EnrollmentStore) List(ctx context.Context, q Query) (*Page, error) {
	q = q.Normalized()
	db := s.db.WithContext(ctx).Model(&models.Enrollment{}).Scopes(q.filter).Session(&gorm.Session{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, s.translate("count enrollments", err)
	}

	totalPages := TotalPages(total, q.PageSize)
	items := []models.Enrollment{}
	// Pages past the end are answered without a query, which also keeps the
	// offset below total.
	if q.Page <= totalPages {
		if err := db.Scopes(q.order, q.paginate).Find(&items).Error; err != nil {
			return nil, s.translate("list enrollments", err)
		}
	}

	return &Page{
		Items:      items,
		Page:       q.Page,
		TotalPages: totalPages,
		Total:      total,
	}, nil
}

// TotalPages is ceil(total/pageSize), and 0 for an empty set.
func TotalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize < 1 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

func escapeLike(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(s)
}
