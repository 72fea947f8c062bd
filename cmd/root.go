package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/event"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "cfis",
	Short: "Criminal face identification from enrolled face samples",
	Long: `cfis recognizes enrolled identities in camera frames and photos.

Each identity is a directory of face images under FACE_SAMPLES_DIR. The
gallery built from those images is matched against every face found in a
frame. Case records for enrolled identities are kept in an optional MySQL
or PostgreSQL record store.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error); overrides LOG_LEVEL")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()

	level := logLevel
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	event.SetLevel(level)
}
