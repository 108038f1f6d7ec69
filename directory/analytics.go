package directory

import (
	"context"
	"sort"
	"time"

	"enrollment/models"

	"github.com/jinzhu/now"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type CourseCount struct {
	Course string `json:"course"`
	Count  int64  `json:"count"`
}

type StatusCount struct {
	Status models.Status `json:"status"`
	Count  int64         `json:"count"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// Analytics holds the three aggregates over the whole enrollment set.
type Analytics struct {
	PerCourse []CourseCount `json:"perCourse"`
	PerStatus []StatusCount `json:"perStatus"`
	Trends    []MonthCount  `json:"trends"`
}

// Aggregator computes analytics on demand. It keeps no state between calls.
type Aggregator struct {
	db *gorm.DB
}

func NewAggregator(db *gorm.DB) *Aggregator {
	return &Aggregator{db: db}
}

// Compute recomputes every aggregate from the store. The three run
// concurrently and never see directory-level filters.
func (a *Aggregator) Compute(ctx context.Context) (*Analytics, error) {
	var out Analytics
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.PerCourse, err = a.PerCourse(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.PerStatus, err = a.PerStatus(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.Trends, err = a.MonthlyTrend(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

// PerCourse counts enrollments per course, largest first, ties by name.
func (a *Aggregator) PerCourse(ctx context.Context) ([]CourseCount, error) {
	rows := []CourseCount{}
	err := a.db.WithContext(ctx).Model(&models.Enrollment{}).
		Select("course, COUNT(*) AS count").
		Group("course").
		Scan(&rows).Error
	if err != nil {
		return nil, translate("count per course", err, "", "")
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Course < rows[j].Course
	})
	return rows, nil
}

// PerStatus counts enrollments per status, ordered by status name.
func (a *Aggregator) PerStatus(ctx context.Context) ([]StatusCount, error) {
	rows := []StatusCount{}
	err := a.db.WithContext(ctx).Model(&models.Enrollment{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, translate("count per status", err, "", "")
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Status.String() < rows[j].Status.String()
	})
	return rows, nil
}

// MonthlyTrend counts enrollments per UTC calendar month of createdAt,
// oldest month first, labelled YYYY-MM.
func (a *Aggregator) MonthlyTrend(ctx context.Context) ([]MonthCount, error) {
	var created []time.Time
	err := a.db.WithContext(ctx).Model(&models.Enrollment{}).Pluck("created_at", &created).Error
	if err != nil {
		return nil, translate("load enrollment dates", err, "", "")
	}

	counts := make(map[time.Time]int64)
	for _, t := range created {
		counts[now.With(t.UTC()).BeginningOfMonth()]++
	}
	months := make([]time.Time, 0, len(counts))
	for m := range counts {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	trend := make([]MonthCount, 0, len(months))
	for _, m := range months {
		trend = append(trend, MonthCount{Month: m.Format("2006-01"), Count: counts[m]})
	}
	return trend, nil
}
