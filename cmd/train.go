package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/config"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/gallery"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Build the gallery from the enrollment directory",
	Long: `Read every face sample under FACE_SAMPLES_DIR, compute the per-identity
centroids and adaptive thresholds, and print a summary.

Examples:
  cfis train
  FACE_SAMPLES_DIR=/data/face_samples cfis train --json`,
	Args: cobra.NoArgs,
	RunE: runTrain,
}

func init() {
	rootCmd.AddCommand(trainCmd)

	trainCmd.Flags().Bool("json", false, "Output as JSON")
}

// TrainResult is the JSON output of train.
type TrainResult struct {
	Root       string                    `json:"root"`
	Images     int                       `json:"images"`
	Identities []gallery.IdentitySummary `json:"identities"`
	DurationMs int64                     `json:"duration_ms"`
}

func runTrain(cmd *cobra.Command, args []string) error {
	jsonOutput := mustGetBool(cmd, "json")
	cfg := config.Load()
	start := time.Now()

	g, err := buildGallery(context.Background(), cfg, !jsonOutput)
	if err != nil {
		return err
	}

	result := TrainResult{
		Root:       cfg.Enrollment.Root,
		Images:     g.Len(),
		Identities: gallery.Summarize(g),
		DurationMs: time.Since(start).Milliseconds(),
	}
	if jsonOutput {
		return outputJSON(result)
	}

	fmt.Printf("Trained on %s from %s in %s\n\n",
		english.Plural(result.Images, "image", ""),
		english.Plural(len(result.Identities), "identity", "identities"),
		time.Since(start).Round(time.Millisecond))

	if len(result.Identities) == 0 {
		fmt.Printf("No identities found in %s. Enroll one with: cfis enroll --name <name> <image>...\n", cfg.Enrollment.Root)
		return nil
	}

	fmt.Printf("%-6s %-30s %8s %10s\n", "LABEL", "NAME", "IMAGES", "THRESHOLD")
	for _, id := range result.Identities {
		threshold := "-"
		if id.Images > 0 {
			threshold = fmt.Sprintf("%.4f", id.Threshold)
		}
		fmt.Printf("%-6d %-30s %8s %10s\n", id.Label, id.Name, humanize.Comma(int64(id.Images)), threshold)
	}
	return nil
}
