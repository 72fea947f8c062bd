package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/config"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/database"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Manage case records of enrolled identities",
}

var recordGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Show the record of an identity",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecordGet,
}

var recordDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete the record of an identity",
	Long: `Delete the record of an identity. The identity's face samples are kept;
remove its directory under FACE_SAMPLES_DIR to stop recognizing it.`,
	Args: cobra.ExactArgs(1),
	RunE: runRecordDelete,
}

func init() {
	rootCmd.AddCommand(recordCmd)
	recordCmd.AddCommand(recordGetCmd)
	recordCmd.AddCommand(recordDeleteCmd)

	recordGetCmd.Flags().Bool("json", false, "Output as JSON")
}

func runRecordGet(cmd *cobra.Command, args []string) error {
	jsonOutput := mustGetBool(cmd, "json")
	cfg := config.Load()

	records, err := openRecords(cfg)
	if err != nil {
		return err
	}
	defer records.Close()

	rec, err := records.Lookup(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	if jsonOutput {
		return outputJSON(rec)
	}
	printRecord(rec, "")
	return nil
}

func runRecordDelete(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	records, err := openRecords(cfg)
	if err != nil {
		return err
	}
	defer records.Close()

	if err := records.Delete(context.Background(), args[0]); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	fmt.Printf("Deleted record of %s\n", args[0])
	return nil
}

// printRecord prints the non-empty fields of rec.
func printRecord(rec *database.Record, indent string) {
	fields := []struct {
		label string
		value string
	}{
		{"Name", rec.Name},
		{"Father's Name", rec.FatherName},
		{"Mother's Name", rec.MotherName},
		{"Gender", rec.Gender},
		{"Date of Birth", rec.DOB},
		{"Blood Group", rec.BloodGroup},
		{"Identification", rec.IdentificationMark},
		{"Nationality", rec.Nationality},
		{"Religion", rec.Religion},
		{"Crimes", rec.Crimes},
	}
	for _, f := range fields {
		if f.value != "" {
			fmt.Printf("%s%-16s %s\n", indent, f.label+":", f.value)
		}
	}
}
