package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/config"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/enroll"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/gallery"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/recognizer"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the recognition API server",
	Long: `Start the HTTP API. The gallery is built at startup and can be rebuilt
with POST /api/v1/gallery/rebuild; frames are posted to /api/v1/recognize.
The record endpoints are enabled when RECORDS_DATABASE_URL is set.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (default WEB_PORT or 8080)")
	serveCmd.Flags().String("host", "", "Host to bind to (default WEB_HOST or 0.0.0.0)")
}

// resolveServeHostPort applies the flags over the environment.
func resolveServeHostPort(cmd *cobra.Command, cfg *config.Config) {
	if port := mustGetInt(cmd, "port"); port > 0 {
		cfg.Web.Port = port
	}
	if host := mustGetString(cmd, "host"); host != "" {
		cfg.Web.Host = host
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	resolveServeHostPort(cmd, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	det, err := newDetector(cfg)
	if err != nil {
		return err
	}

	deps := web.Deps{Builder: newBuilder(cfg, nil)}

	if cfg.Database.Enabled() {
		fmt.Printf("Connecting to %s record store...\n", cfg.Database.Driver)
		records, err := openRecords(cfg)
		if err != nil {
			return err
		}
		defer records.Close()
		deps.Records = records
	} else {
		fmt.Println("Record store disabled (RECORDS_DATABASE_URL not set)")
	}

	g, err := buildGallery(ctx, cfg, true)
	if err != nil {
		return err
	}
	fmt.Printf("Gallery ready: %d images, %d identities\n", g.Len(), len(g.Centroids))

	deps.Store = gallery.NewStore(g)
	deps.Recognizer = recognizer.New(det, newMatcher(cfg), deps.Store)
	deps.Enroller = enroll.New(cfg.Enrollment.Root, cfg.Enrollment.TempDir, faceSize(cfg), det)

	server := web.NewServer(cfg, deps)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting cfis API on http://%s:%d\n", cfg.Web.Host, cfg.Web.Port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
