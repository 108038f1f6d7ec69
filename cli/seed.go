package cli

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"os"

	"enrollment/directory"
	"enrollment/models"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed seed.yaml
var defaultSeed []byte

// SeedData is the content of a seed file.
type SeedData struct {
	Courses     []string                    `yaml:"courses"`
	Enrollments []directory.EnrollmentInput `yaml:"enrollments"`
}

// SeedSummary counts what a seed run did.
type SeedSummary struct {
	Courses     int
	Enrollments int
	Skipped     int
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		file  string
		reset bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load courses and enrollments from a seed file",
		Long: `Load courses and enrollments from a YAML seed file.

Without --file the built-in sample data is used. Records that already exist
are skipped; --reset empties both tables first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := LoadSeed(file)
			if err != nil {
				return err
			}
			db, err := openDatabase(rootOpts.Config)
			if err != nil {
				return err
			}

			summary, err := Seed(cmd.Context(), db, data, reset)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Courses: %d | Enrollments: %d | Skipped: %d\n",
				summary.Courses, summary.Enrollments, summary.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "seed file (YAML); defaults to the built-in data")
	cmd.Flags().BoolVar(&reset, "reset", false, "delete all courses and enrollments before seeding")

	return cmd
}

// LoadSeed reads path, or the built-in data when path is empty.
func LoadSeed(path string) (*SeedData, error) {
	raw := defaultSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		raw = b
	}

	var data SeedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &data, nil
}

// Seed writes data through the directory so every record passes the same
// validation and uniqueness rules as the API. Conflicts are counted as
// skipped; any other error aborts the run.
func Seed(ctx context.Context, db *gorm.DB, data *SeedData, reset bool) (SeedSummary, error) {
	var summary SeedSummary

	if reset {
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("1 = 1").Delete(&models.Enrollment{}).Error; err != nil {
				return err
			}
			return tx.Where("1 = 1").Delete(&models.Course{}).Error
		})
		if err != nil {
			return summary, fmt.Errorf("reset: %w", err)
		}
		log.Println("Cleared courses and enrollments")
	}

	dir := directory.New(db)

	for _, name := range data.Courses {
		_, err := dir.Courses.Create(ctx, name)
		switch {
		case err == nil:
			summary.Courses++
		case directory.IsConflict(err):
			summary.Skipped++
		default:
			return summary, fmt.Errorf("seed course %q: %w", name, err)
		}
	}

	for _, in := range data.Enrollments {
		_, err := dir.Enrollments.Create(ctx, in)
		switch {
		case err == nil:
			summary.Enrollments++
		case directory.IsConflict(err):
			summary.Skipped++
		default:
			return summary, fmt.Errorf("seed enrollment %s/%s: %w", in.Email, in.Course, err)
		}
	}

	log.Printf("Seeded %d courses and %d enrollments (%d skipped)", summary.Courses, summary.Enrollments, summary.Skipped)
	return summary, nil
}
