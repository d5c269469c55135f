package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/convrt/rag-backend/internal/uploader"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	serverURL string
	reportID  string
	timeout   time.Duration
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:           "rag-upload",
	Short:         "Upload CSV datasets to a RAG backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload every file in a directory",
	Long: `Upload every non-hidden file in a directory to the backend.

Files the backend rejects are reported and do not stop the batch.

Examples:
  rag-upload upload --dir ./data
  rag-upload upload --dir ./data --report-id q3 --concurrency 8`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		concurrency, _ := cmd.Flags().GetInt("concurrency")

		ctx, logger := commandContext(cmd)
		files, err := uploader.CollectFiles(dir)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Printf("No files found in %s\n", dir)
			return nil
		}

		fmt.Printf("Uploading %d files from %s\n", len(files), dir)
		result := uploader.UploadAll(ctx, newClient(logger), files, reportID, concurrency)
		for _, name := range result.Uploaded {
			fmt.Printf("  uploaded %s\n", name)
		}
		for _, name := range result.Failed {
			fmt.Printf("  FAILED   %s\n", name)
		}
		fmt.Printf("Done: %d uploaded, %d failed\n", len(result.Uploaded), len(result.Failed))

		if len(result.Failed) > 0 {
			return fmt.Errorf("%d uploads failed", len(result.Failed))
		}
		return nil
	},
}

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List files in the report's corpus",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, logger := commandContext(cmd)
		files, err := newClient(logger).ListFiles(ctx, reportID)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Println("No files.")
			return nil
		}
		for _, f := range files {
			fmt.Println(f)
		}
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Upload CSV files as they appear in a directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		debounce, _ := cmd.Flags().GetDuration("debounce")

		ctx, logger := commandContext(cmd)
		client := newClient(logger)

		fmt.Printf("Watching %s for CSV files (Ctrl+C to stop)\n", dir)
		return uploader.Watch(ctx, dir, debounce, func(path string) {
			msg, err := client.Upload(ctx, path, uploader.Description(path), reportID)
			if err != nil {
				fmt.Printf("  FAILED   %s: %v\n", filepath.Base(path), err)
				return
			}
			fmt.Printf("  %s\n", msg)
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("RAG_BACKEND_URL", "http://localhost:8000"), "backend base URL")
	rootCmd.PersistentFlags().StringVar(&reportID, "report-id", "", "target report corpus (default corpus when empty)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Minute, "per-request timeout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log HTTP requests")

	uploadCmd.Flags().String("dir", ".", "directory with files to upload")
	uploadCmd.Flags().Int("concurrency", 4, "parallel uploads")

	watchCmd.Flags().String("dir", ".", "directory to watch")
	watchCmd.Flags().Duration("debounce", 2*time.Second, "quiet period before a changed file is uploaded")

	rootCmd.AddCommand(uploadCmd, filesCmd, watchCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func commandContext(cmd *cobra.Command) (context.Context, *zap.Logger) {
	logger := zap.NewNop()
	if verbose {
		if l, err := zap.NewDevelopment(); err == nil {
			logger = l
		}
	}
	return ctxzap.ToContext(cmd.Context(), logger.With(zap.String("command", cmd.Name()))), logger
}

func newClient(logger *zap.Logger) *uploader.Client {
	return uploader.NewClient(serverURL, timeout, logger)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
