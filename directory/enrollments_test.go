package directory

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"enrollment/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestEnrollmentStore_DuplicatePairConflicts(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()

	_, err := dir.Enrollments.Create(ctx, input("Ada", "a@x.com", "CS"))
	require.NoError(t, err)

	_, err = dir.Enrollments.Create(ctx, input("Ada", "a@x.com", "CS"))
	require.Error(t, err)
	assert.True(t, IsConflict(err))
	assert.EqualError(t, err, "A student with this email is already enrolled in this course")
}

func TestEnrollmentStore_SameEmailDifferentCourses(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()

	_, err := dir.Enrollments.Create(ctx, input("Ada", "a@x.com", "CS"))
	require.NoError(t, err)
	_, err = dir.Enrollments.Create(ctx, input("Ada", "a@x.com", "DS"))
	require.NoError(t, err)

	profile, err := dir.Enrollments.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, profile, 2)
	assert.Equal(t, "CS", profile[0].Course)
	assert.Equal(t, "DS", profile[1].Course)
}

func TestEnrollmentStore_CreateNormalizesEmail(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()

	e, err := dir.Enrollments.Create(ctx, input("  Ada Lovelace ", "  Ada@Example.COM ", " CS "))
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", e.Name)
	assert.Equal(t, "ada@example.com", e.Email)
	assert.Equal(t, "CS", e.Course)

	_, err = dir.Enrollments.Create(ctx, input("Ada", "ADA@example.com", "CS"))
	assert.True(t, IsConflict(err), "differently cased email must conflict, got %v", err)

	profile, err := dir.Enrollments.GetByEmail(ctx, "ADA@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Len(t, profile, 1)
}

func TestEnrollmentStore_CreateDefaultsAndTimestamps(t *testing.T) {
	dir, clock := newTestDirectory(t)
	at := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	clock.Set(at)

	e, err := dir.Enrollments.Create(context.Background(), input("Ada", "a@x.com", "CS"))
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, models.StatusPending, e.Status)
	assert.True(t, e.CreatedAt.Equal(at), "createdAt %s", e.CreatedAt)
	assert.False(t, e.UpdatedAt.IsZero())

	stored, err := dir.Enrollments.GetByID(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.True(t, stored.CreatedAt.Equal(at))
}

func TestEnrollmentStore_CreateValidation(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   EnrollmentInput
		want string
	}{
		{
			name: "everything missing",
			in:   EnrollmentInput{},
			want: "Name is required, Email is required, Phone number is required, Course is required",
		},
		{
			name: "bad email",
			in:   EnrollmentInput{Name: "Ada", Email: "not-an-email", Phone: "123", Course: "CS"},
			want: "Please enter a valid email address",
		},
		{
			name: "phone with letters",
			in:   EnrollmentInput{Name: "Ada", Email: "a@x.com", Phone: "077-123", Course: "CS"},
			want: "Phone number must contain digits only",
		},
		{
			name: "unknown status",
			in:   EnrollmentInput{Name: "Ada", Email: "a@x.com", Phone: "123", Course: "CS", Status: "Dropped"},
			want: "Status must be Pending, Active, or Completed",
		},
		{
			name: "several fields",
			in:   EnrollmentInput{Name: " ", Email: "a@x.com", Phone: "x", Course: "CS", Status: "active"},
			want: "Name is required, Phone number must contain digits only, Status must be Pending, Active, or Completed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dir.Enrollments.Create(ctx, tt.in)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestEnrollmentStore_CreateWithStatus(t *testing.T) {
	dir, _ := newTestDirectory(t)

	in := input("Ada", "a@x.com", "CS")
	in.Status = "Completed"
	e, err := dir.Enrollments.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, e.Status)
}

func TestEnrollmentStore_GetByIDNotFound(t *testing.T) {
	dir, _ := newTestDirectory(t)

	_, err := dir.Enrollments.GetByID(context.Background(), "missing")
	assert.True(t, IsNotFound(err))
	assert.EqualError(t, err, "Student not found")
}

func TestEnrollmentStore_GetByEmailNotFound(t *testing.T) {
	dir, _ := newTestDirectory(t)

	_, err := dir.Enrollments.GetByEmail(context.Background(), "nobody@x.com")
	assert.True(t, IsNotFound(err))
}

func TestEnrollmentStore_DeleteThenRead(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()

	e, err := dir.Enrollments.Create(ctx, input("Ada", "a@x.com", "CS"))
	require.NoError(t, err)

	require.NoError(t, dir.Enrollments.Delete(ctx, e.ID))

	_, err = dir.Enrollments.GetByID(ctx, e.ID)
	assert.True(t, IsNotFound(err))

	err = dir.Enrollments.Delete(ctx, e.ID)
	assert.True(t, IsNotFound(err))

	// The pair is free again.
	_, err = dir.Enrollments.Create(ctx, input("Ada", "a@x.com", "CS"))
	assert.NoError(t, err)
}

func TestEnrollmentStore_UpdatePartial(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()

	e, err := dir.Enrollments.Create(ctx, input("Ada", "a@x.com", "CS"))
	require.NoError(t, err)

	got, err := dir.Enrollments.Update(ctx, e.ID, EnrollmentPatch{
		Name:   strPtr("Ada Lovelace"),
		Status: strPtr("Active"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.Name)
	assert.Equal(t, models.StatusActive, got.Status)
	assert.Equal(t, "a@x.com", got.Email)
	assert.Equal(t, "CS", got.Course)
	assert.Equal(t, e.Phone, got.Phone)
	assert.True(t, got.CreatedAt.Equal(e.CreatedAt))
	assert.True(t, got.UpdatedAt.After(e.UpdatedAt), "updatedAt should advance")

	stored, err := dir.Enrollments.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", stored.Name)
	assert.Equal(t, models.StatusActive, stored.Status)
}

func TestEnrollmentStore_UpdateConflicts(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()

	cs, err := dir.Enrollments.Create(ctx, input("Ada", "a@x.com", "CS"))
	require.NoError(t, err)
	ds, err := dir.Enrollments.Create(ctx, input("Ada", "a@x.com", "DS"))
	require.NoError(t, err)

	_, err = dir.Enrollments.Update(ctx, ds.ID, EnrollmentPatch{Course: strPtr("CS")})
	assert.True(t, IsConflict(err))

	_, err = dir.Enrollments.Update(ctx, ds.ID, EnrollmentPatch{Email: strPtr("A@X.com"), Course: strPtr("CS")})
	assert.True(t, IsConflict(err), "email is normalized before the check")

	unchanged, err := dir.Enrollments.GetByID(ctx, ds.ID)
	require.NoError(t, err)
	assert.Equal(t, "DS", unchanged.Course)

	// Re-sending the record's own pair is not a conflict.
	_, err = dir.Enrollments.Update(ctx, cs.ID, EnrollmentPatch{Email: strPtr("a@x.com"), Course: strPtr("CS"), Phone: strPtr("999")})
	assert.NoError(t, err)

	moved, err := dir.Enrollments.Update(ctx, ds.ID, EnrollmentPatch{Course: strPtr("AI")})
	require.NoError(t, err)
	assert.Equal(t, "AI", moved.Course)
}

func TestEnrollmentStore_UpdateErrors(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()

	e, err := dir.Enrollments.Create(ctx, input("Ada", "a@x.com", "CS"))
	require.NoError(t, err)

	_, err = dir.Enrollments.Update(ctx, "missing", EnrollmentPatch{Name: strPtr("x")})
	assert.True(t, IsNotFound(err))

	_, err = dir.Enrollments.Update(ctx, e.ID, EnrollmentPatch{Email: strPtr("broken")})
	assert.True(t, IsValidation(err))
	assert.EqualError(t, err, "Please enter a valid email address")

	_, err = dir.Enrollments.Update(ctx, e.ID, EnrollmentPatch{Status: strPtr("Graduated")})
	assert.True(t, IsValidation(err))

	_, err = dir.Enrollments.Update(ctx, e.ID, EnrollmentPatch{Name: strPtr("")})
	assert.True(t, IsValidation(err))

	stored, err := dir.Enrollments.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", stored.Name)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestEnrollmentStore_BulkDelete(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()
	ids := seedEnrollments(t, dir.Enrollments, 4, "CS")

	_, err := dir.Enrollments.BulkDelete(ctx, nil)
	assert.True(t, IsValidation(err))

	n, err := dir.Enrollments.BulkDelete(ctx, []string{ids[0], ids[2], "missing"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	page, err := dir.Enrollments.List(ctx, Query{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)

	_, err = dir.Enrollments.GetByID(ctx, ids[0])
	assert.True(t, IsNotFound(err))
}

func TestEnrollmentStore_BulkSetStatus(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()

	id1, err := dir.Enrollments.Create(ctx, input("Ada", "a@x.com", "CS"))
	require.NoError(t, err)
	other, err := dir.Enrollments.Create(ctx, input("Bob", "b@x.com", "CS"))
	require.NoError(t, err)

	n, err := dir.Enrollments.BulkSetStatus(ctx, []string{id1.ID, "does-not-exist"}, "Completed")
	require.NoError(t, err)
	assert.LessOrEqual(t, n, int64(2))
	assert.EqualValues(t, 1, n)

	updated, err := dir.Enrollments.GetByID(ctx, id1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
	assert.Equal(t, "Ada", updated.Name)
	assert.Equal(t, "a@x.com", updated.Email)

	untouched, err := dir.Enrollments.GetByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, untouched.Status)
}

func TestEnrollmentStore_BulkSetStatusValidation(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()

	_, err := dir.Enrollments.BulkSetStatus(ctx, nil, "Active")
	assert.True(t, IsValidation(err))

	_, err = dir.Enrollments.BulkSetStatus(ctx, []string{"x"}, "Archived")
	assert.True(t, IsValidation(err))
	assert.EqualError(t, err, "Status must be Pending, Active, or Completed")

	_, err = dir.Enrollments.BulkSetStatus(ctx, []string{}, "")
	assert.EqualError(t, err, "ids must be a non-empty list, Status must be Pending, Active, or Completed")
}

func TestEnrollmentStore_UniqueIndexBacksTheCheck(t *testing.T) {
	db := openTestDB(t)
	store := NewEnrollmentStore(db)
	ctx := context.Background()

	_, err := store.Create(ctx, input("Ada", "a@x.com", "CS"))
	require.NoError(t, err)

	// A writer that skips the application check is stopped by the index.
	dup := models.Enrollment{Name: "Ada", Email: "a@x.com", Phone: "1", Course: "CS"}
	err = db.Create(&dup).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	translated := store.translate("create enrollment", err)
	assert.True(t, IsConflict(translated))
}

func TestEnrollmentStore_UniquenessHoldsUnderRandomMutations(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	emails := []string{"a@x.com", "B@x.com", "c@x.com"}
	courses := []string{"CS", "DS", "AI"}
	var ids []string

	for i := 0; i < 200; i++ {
		email := emails[rng.Intn(len(emails))]
		course := courses[rng.Intn(len(courses))]

		if len(ids) == 0 || rng.Intn(2) == 0 {
			e, err := dir.Enrollments.Create(ctx, input(fmt.Sprintf("S%d", i), email, course))
			if err == nil {
				ids = append(ids, e.ID)
			} else {
				require.True(t, IsConflict(err), "unexpected error: %v", err)
			}
		} else {
			id := ids[rng.Intn(len(ids))]
			_, err := dir.Enrollments.Update(ctx, id, EnrollmentPatch{Email: &email, Course: &course})
			if err != nil {
				require.True(t, IsConflict(err), "unexpected error: %v", err)
			}
		}

		page, err := dir.Enrollments.List(ctx, Query{PageSize: 100})
		require.NoError(t, err)
		seen := make(map[string]bool)
		for _, e := range page.Items {
			key := e.Email + "|" + e.Course
			require.False(t, seen[key], "duplicate pair %s after step %d", key, i)
			seen[key] = true
		}
	}
}
