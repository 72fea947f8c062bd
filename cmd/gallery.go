package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/config"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/constants"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/facevec"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/gallery"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/imageio"
)

var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "Inspect the trained gallery",
}

var galleryNeighborsCmd = &cobra.Command{
	Use:   "neighbors <face-image>",
	Short: "List the enrollment images closest to a face crop",
	Long: `Normalize a face crop and list the k most similar enrollment images using
an HNSW index over the gallery. Useful to see why a face was or was not
matched.

Examples:
  cfis gallery neighbors crop.png -k 10`,
	Args: cobra.ExactArgs(1),
	RunE: runGalleryNeighbors,
}

var galleryOutliersCmd = &cobra.Command{
	Use:   "outliers",
	Short: "List enrollment images below their identity's threshold",
	Args:  cobra.NoArgs,
	RunE:  runGalleryOutliers,
}

func init() {
	rootCmd.AddCommand(galleryCmd)
	galleryCmd.AddCommand(galleryNeighborsCmd)
	galleryCmd.AddCommand(galleryOutliersCmd)

	galleryNeighborsCmd.Flags().IntP("k", "k", constants.DefaultNeighbors, "Number of neighbors")
	galleryNeighborsCmd.Flags().Bool("json", false, "Output as JSON")
	galleryOutliersCmd.Flags().Bool("json", false, "Output as JSON")
}

// NeighborOutput is one row of neighbors output.
type NeighborOutput struct {
	Name       string  `json:"name"`
	Label      int     `json:"label"`
	Source     string  `json:"source"`
	Similarity float64 `json:"similarity"`
	Threshold  float64 `json:"threshold"`
}

func runGalleryNeighbors(cmd *cobra.Command, args []string) error {
	k := mustGetInt(cmd, "k")
	jsonOutput := mustGetBool(cmd, "json")
	cfg := config.Load()

	img, err := imageio.ReadFile(args[0])
	if err != nil {
		return err
	}

	g, err := buildGallery(context.Background(), cfg, false)
	if err != nil {
		return err
	}

	_, v := facevec.Normalize(facevec.ToGray(img), g.Size)
	if v.IsZero() {
		return fmt.Errorf("%s has no intensity variance", args[0])
	}

	idx := gallery.NewIndex(g)
	out := []NeighborOutput{}
	for _, n := range idx.Neighbors(v, k) {
		out = append(out, NeighborOutput{
			Name:       n.Name,
			Label:      n.Entry.Label,
			Source:     n.Entry.Source,
			Similarity: n.Similarity,
			Threshold:  g.Thresholds[n.Entry.Label],
		})
	}

	if jsonOutput {
		return outputJSON(out)
	}
	if len(out) == 0 {
		fmt.Println("Gallery is empty.")
		return nil
	}
	fmt.Printf("%-24s %10s %10s  %s\n", "NAME", "SIMILARITY", "THRESHOLD", "SOURCE")
	for _, n := range out {
		fmt.Printf("%-24s %10.4f %10.4f  %s\n", n.Name, n.Similarity, n.Threshold, n.Source)
	}
	return nil
}

func runGalleryOutliers(cmd *cobra.Command, args []string) error {
	jsonOutput := mustGetBool(cmd, "json")
	cfg := config.Load()

	g, err := buildGallery(context.Background(), cfg, !jsonOutput)
	if err != nil {
		return err
	}

	out := gallery.Outliers(g)
	if jsonOutput {
		if out == nil {
			out = []gallery.Outlier{}
		}
		return outputJSON(out)
	}
	if len(out) == 0 {
		fmt.Println("No outliers.")
		return nil
	}
	fmt.Printf("%-24s %10s %10s  %s\n", "NAME", "SIMILARITY", "THRESHOLD", "SOURCE")
	for _, o := range out {
		fmt.Printf("%-24s %10.4f %10.4f  %s\n", o.Name, o.Similarity, o.Threshold, o.Source)
	}
	return nil
}
