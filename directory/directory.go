// Package directory is the enrollment directory service: the course
// registry, the enrollment store with its (email, course) uniqueness rule,
// the paginated query composer and the analytics aggregator.
//
// Every operation takes its inputs explicitly. Nothing here reads request
// state, tokens or other ambient globals; the caller is assumed to be
// authorized already.
package directory

import (
	"time"

	"gorm.io/gorm"
)

// Clock supplies the timestamps the store assigns to records.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

type options struct {
	clock Clock
}

// Option configures the directory components.
type Option func(*options)

// WithClock overrides the clock used for createdAt/updatedAt.
func WithClock(c Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

func buildOptions(opts []Option) options {
	o := options{clock: SystemClock{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// session returns a handle whose automatic timestamps come from the clock.
func session(db *gorm.DB, o options) *gorm.DB {
	return db.Session(&gorm.Session{NowFunc: o.clock.Now})
}

// Directory bundles the components that share one database.
type Directory struct {
	Courses     *CourseRegistry
	Enrollments *EnrollmentStore
	Analytics   *Aggregator
}

func New(db *gorm.DB, opts ...Option) *Directory {
	return &Directory{
		Courses:     NewCourseRegistry(db, opts...),
		Enrollments: NewEnrollmentStore(db, opts...),
		Analytics:   NewAggregator(db),
	}
}
