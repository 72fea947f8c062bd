package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/config"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/database"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/facevec"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/gallery"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/imageio"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/recognizer"
)

var recognizeCmd = &cobra.Command{
	Use:   "recognize <image>...",
	Short: "Recognize enrolled identities in images",
	Long: `Treat each image as a camera frame: detect every face, match it against the
gallery and print the identities recognized with their confidence.

Examples:
  cfis recognize frame.jpg
  cfis recognize --annotate out/ --records frames/*.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRecognize,
}

func init() {
	rootCmd.AddCommand(recognizeCmd)

	recognizeCmd.Flags().String("annotate", "", "Directory to write annotated frames to")
	recognizeCmd.Flags().Bool("records", false, "Look up the record of every recognized identity")
	recognizeCmd.Flags().Bool("json", false, "Output as JSON")
}

// FrameOutput is the JSON output for one image.
type FrameOutput struct {
	Path       string                      `json:"path"`
	Faces      []recognizer.FaceOutcome    `json:"faces"`
	Recognized []recognizer.Recognition    `json:"recognized"`
	Records    map[string]*database.Record `json:"records,omitempty"`
	Annotated  string                      `json:"annotated,omitempty"`
	Error      string                      `json:"error,omitempty"`
}

func runRecognize(cmd *cobra.Command, args []string) error {
	annotateDir := mustGetString(cmd, "annotate")
	withRecords := mustGetBool(cmd, "records")
	jsonOutput := mustGetBool(cmd, "json")

	ctx := context.Background()
	cfg := config.Load()

	det, err := newDetector(cfg)
	if err != nil {
		return err
	}

	var records database.RecordStore
	if withRecords {
		if records, err = openRecords(cfg); err != nil {
			return err
		}
		defer records.Close()
	}

	if annotateDir != "" {
		if err := os.MkdirAll(annotateDir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", annotateDir, err)
		}
	}

	g, err := buildGallery(ctx, cfg, false)
	if err != nil {
		return err
	}
	if g.IsEmpty() {
		fmt.Fprintf(os.Stderr, "Warning: gallery is empty, no face can be recognized\n")
	}
	rec := recognizer.New(det, newMatcher(cfg), gallery.NewStore(g))

	var outputs []FrameOutput
	for _, path := range args {
		out := recognizeFile(ctx, rec, records, path, annotateDir)
		outputs = append(outputs, out)
		if !jsonOutput {
			printFrameOutput(out)
		}
	}

	if jsonOutput {
		return outputJSON(outputs)
	}
	return nil
}

func recognizeFile(ctx context.Context, rec *recognizer.Recognizer, records database.RecordReader, path, annotateDir string) FrameOutput {
	out := FrameOutput{Path: path}

	img, err := imageio.ReadFile(path)
	if err != nil {
		out.Error = err.Error()
		return out
	}

	res, err := rec.Frame(ctx, facevec.ToGray(img))
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Faces = res.Faces
	out.Recognized = res.Recognized

	if records != nil && len(res.Recognized) > 0 {
		out.Records = make(map[string]*database.Record, len(res.Recognized))
		for _, r := range res.Recognized {
			record, err := records.Lookup(ctx, r.Name)
			if err != nil {
				if !errors.Is(err, database.ErrRecordNotFound) {
					fmt.Fprintf(os.Stderr, "Warning: looking up record for %s: %v\n", r.Name, err)
				}
				continue
			}
			out.Records[r.Name] = record
		}
	}

	if annotateDir != "" {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + "_annotated.png"
		dst := filepath.Join(annotateDir, name)
		if err := imageio.WritePNG(dst, recognizer.Annotate(img, res)); err != nil {
			out.Error = err.Error()
			return out
		}
		out.Annotated = dst
	}
	return out
}

func printFrameOutput(out FrameOutput) {
	fmt.Printf("%s\n", out.Path)
	if out.Error != "" {
		fmt.Printf("  Error: %s\n", out.Error)
		return
	}
	fmt.Printf("  Faces: %d\n", len(out.Faces))
	if len(out.Recognized) == 0 {
		fmt.Println("  Recognized: none")
	}
	for _, r := range out.Recognized {
		fmt.Printf("  Recognized: %s (%.1f%%)\n", r.DisplayName, r.Confidence)
		if record, ok := out.Records[r.Name]; ok {
			printRecord(record, "    ")
		}
	}
	if out.Annotated != "" {
		fmt.Printf("  Annotated: %s\n", out.Annotated)
	}
}
