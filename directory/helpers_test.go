package directory

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"enrollment/config"
	"enrollment/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testClock hands out deterministic timestamps. Each call to Now returns
// the current instant and then advances it by step.
type testClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func newTestClock(start time.Time) *testClock {
	return &testClock{now: start.UTC(), step: time.Second}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t.UTC()
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.ConnectDb(&config.Config{
		DBDriver:   "sqlite",
		DBName:     filepath.Join(t.TempDir(), "directory.db"),
		DBLogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func newTestDirectory(t *testing.T) (*Directory, *testClock) {
	t.Helper()
	clock := newTestClock(time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))
	return New(openTestDB(t), WithClock(clock)), clock
}

func input(name, email, course string) EnrollmentInput {
	return EnrollmentInput{Name: name, Email: email, Phone: "0771234567", Course: course}
}

// seedEnrollments creates n enrollments named "Student 01".. in course.
func seedEnrollments(t *testing.T, store *EnrollmentStore, n int, course string) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		e, err := store.Create(context.Background(), input(
			fmt.Sprintf("Student %02d", i),
			fmt.Sprintf("student%02d@example.com", i),
			course,
		))
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}
	return ids
}

func strPtr(s string) *string { return &s }
