package cmd

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/config"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/database"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/enroll"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/imageio"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll --name <name> <image>...",
	Short: "Register an identity from face images",
	Long: `Detect the face in every image and store it under FACE_SAMPLES_DIR/<name>.
Images without a face are skipped. Enrolling an existing name adds samples.

When any record flag is given, a case record is created in the record store.

Examples:
  cfis enroll --name "ravi kumar" captures/*.jpg
  cfis enroll --name alice --crimes "fraud" --dob 1984-03-11 alice1.png alice2.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEnroll,
}

// recordFlags maps enroll flags to record fields.
var recordFlags = []struct {
	name  string
	usage string
	field func(*database.Record) *string
}{
	{"father", "Father's name", func(r *database.Record) *string { return &r.FatherName }},
	{"mother", "Mother's name", func(r *database.Record) *string { return &r.MotherName }},
	{"gender", "Gender", func(r *database.Record) *string { return &r.Gender }},
	{"dob", "Date of birth (YYYY-MM-DD)", func(r *database.Record) *string { return &r.DOB }},
	{"blood-group", "Blood group", func(r *database.Record) *string { return &r.BloodGroup }},
	{"mark", "Identification mark", func(r *database.Record) *string { return &r.IdentificationMark }},
	{"nationality", "Nationality", func(r *database.Record) *string { return &r.Nationality }},
	{"religion", "Religion", func(r *database.Record) *string { return &r.Religion }},
	{"crimes", "Crimes done", func(r *database.Record) *string { return &r.Crimes }},
}

func init() {
	rootCmd.AddCommand(enrollCmd)

	enrollCmd.Flags().String("name", "", "Identity name (required)")
	enrollCmd.MarkFlagRequired("name") //nolint:errcheck // flag defined above
	for _, f := range recordFlags {
		enrollCmd.Flags().String(f.name, "", f.usage)
	}
}

// recordFromFlags returns the record described by the flags, or nil when no
// record flag was given.
func recordFromFlags(cmd *cobra.Command, name string) *database.Record {
	rec := &database.Record{Name: name}
	set := false
	for _, f := range recordFlags {
		if cmd.Flags().Changed(f.name) {
			*f.field(rec) = mustGetString(cmd, f.name)
			set = true
		}
	}
	if !set {
		return nil
	}
	return rec
}

func runEnroll(cmd *cobra.Command, args []string) error {
	name := mustGetString(cmd, "name")
	ctx := context.Background()
	cfg := config.Load()

	if err := enroll.ValidateName(name, cfg.Enrollment.TempDir); err != nil {
		return err
	}

	rec := recordFromFlags(cmd, name)
	var records database.RecordStore
	if rec != nil {
		if err := rec.Validate(); err != nil {
			return err
		}
		var err error
		if records, err = openRecords(cfg); err != nil {
			return err
		}
		defer records.Close()
	}

	det, err := newDetector(cfg)
	if err != nil {
		return err
	}

	images := make([]image.Image, 0, len(args))
	for _, path := range args {
		img, err := imageio.ReadFile(path)
		if err != nil {
			fmt.Printf("Skipping %s: %v\n", path, err)
			continue
		}
		images = append(images, img)
	}
	if len(images) == 0 {
		return errors.New("no readable images")
	}

	sum, err := enroll.New(cfg.Enrollment.Root, cfg.Enrollment.TempDir, faceSize(cfg), det).Enroll(ctx, name, images)
	if err != nil {
		return err
	}
	fmt.Printf("Enrolled %s: saved %s to %s", name, english.Plural(sum.Saved, "face", ""), sum.Dir)
	if sum.Skipped > 0 {
		fmt.Printf(" (%d without a face skipped)", sum.Skipped)
	}
	fmt.Println()

	if rec != nil {
		id, err := records.Create(ctx, rec)
		if err != nil {
			return fmt.Errorf("creating record for %s: %w", name, err)
		}
		fmt.Printf("Created record #%d\n", id)
	}

	fmt.Println("Run 'cfis train' to check the updated gallery.")
	return nil
}
