package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"image-resizer/internal/database"
	"image-resizer/internal/filesystem"
	"image-resizer/internal/logging"
	"image-resizer/internal/media"
	"image-resizer/internal/memory"
	"image-resizer/internal/metrics"
	"image-resizer/internal/startup"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/term"
)

func main() {
	// Create a context that cancels on interrupt signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted, shutting down...")
		cancel()
	}()

	code := run(ctx, os.Args[1:], os.Stdout)
	cancel()
	os.Exit(code)
}

// app holds what every command needs.
type app struct {
	cfg      *startup.Config
	db       *database.Database
	resolver *media.ThumbnailResolver
	output
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, args []string, stdout io.Writer) int {
	if len(args) < 1 {
		printUsage(os.Stderr)
		return 2
	}

	command := args[0]
	switch command {
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	case "version":
		return writeOrFail(newOutput(stdout), startup.GetBuildInfo())
	case "register", "resolve", "sizes", "warm":
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", sanitizeCommand(command))
		printUsage(os.Stderr)
		return 2
	}

	memory.ConfigureFromEnv()

	cfg, err := startup.LoadConfig()
	if err != nil {
		logging.Error("Configuration error: %v", err)
		return 1
	}

	filesystem.SetDefaultVolumeResolver(filesystem.NewVolumeResolver(map[string]string{
		"uploads":  cfg.UploadsDir,
		"database": cfg.DatabaseDir,
	}))

	metrics.InitializeMetrics()
	metrics.SetAppInfo(startup.Version, startup.Commit, startup.GoVersion, cfg.Codec)

	codec, shutdown, err := newCodec(cfg.Codec)
	if err != nil {
		logging.Error("Failed to initialize %s codec: %v", cfg.Codec, err)
		return 1
	}
	defer shutdown()

	db, err := database.New(ctx, cfg.DatabasePath)
	if err != nil {
		logging.Error("Failed to open database: %v", err)
		logging.Error("Make sure DATABASE_DIR is set correctly (current: %s)", cfg.DatabaseDir)
		return 1
	}
	defer func() {
		db.UpdateDBMetrics()
		writeMetricsFile(cfg.MetricsFile)
		if err := db.Close(); err != nil {
			logging.Warn("failed to close database: %v", err)
		}
	}()

	a := &app{
		cfg:      cfg,
		db:       db,
		resolver: media.NewThumbnailResolver(db, codec, cfg.ResolverConfig()),
		output:   newOutput(stdout),
	}

	rest := args[1:]
	switch command {
	case "register":
		return a.register(ctx, rest)
	case "resolve":
		return a.resolve(ctx, rest)
	case "sizes":
		return a.sizes(ctx, rest)
	default:
		return a.warm(ctx, rest)
	}
}

// newCodec returns the configured codec and a function releasing it.
func newCodec(name string) (media.ImageCodec, func(), error) {
	if name != startup.CodecVips {
		return media.NewImagingCodec(), func() {}, nil
	}
	if err := media.InitVips(); err != nil {
		return nil, nil, err
	}
	return media.NewVipsCodec(), media.ShutdownVips, nil
}

// writeMetricsFile snapshots the default registry for the node exporter
// textfile collector.
func writeMetricsFile(path string) {
	if path == "" {
		return
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		logging.Warn("Failed to write metrics file %s: %v", path, err)
		return
	}
	logging.Debug("Metrics written to %s", path)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type output struct {
	w      io.Writer
	pretty bool
}

func newOutput(w io.Writer) output {
	return output{w: w, pretty: isTerminal(w)}
}

// writeJSON prints v, indented when stdout is a terminal.
func (o output) writeJSON(v any) error {
	enc := json.NewEncoder(o.w)
	enc.SetEscapeHTML(false)
	if o.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func writeOrFail(o output, v any) int {
	if err := o.writeJSON(v); err != nil {
		logging.Error("Failed to write output: %v", err)
		return 1
	}
	return 0
}

// sanitizeCommand returns a safe representation of a command string for display.
// It uses an allowlist approach, replacing any character that is not alphanumeric,
// a hyphen, or an underscore with '_'.
func sanitizeCommand(cmd string) string {
	var b strings.Builder
	b.Grow(len(cmd))
	for _, r := range cmd {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Image Resizer")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage: image-resizer <command> [arguments]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  register <file> [url]         - Record an uploaded image")
	fmt.Fprintln(w, "  resolve <id> <size> [--retina] - Resize an attachment and print the result")
	fmt.Fprintln(w, "  sizes <id>                    - Print the recorded sizes of an attachment")
	fmt.Fprintln(w, "  warm <size> [--rate=N]        - Resolve a size for every attachment")
	fmt.Fprintln(w, "  version                       - Print build information")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Sizes are a named size (thumbnail, medium, ...) or W, WxH, WxHxANCHOR.")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  UPLOADS_DIR, UPLOADS_URL, DATABASE_DIR, SIZE_PREFIX, RETINA_ENABLED,")
	fmt.Fprintln(w, "  IMAGE_CODEC, IMAGE_SIZES, IMAGE_SIZES_FILE, METRICS_FILE, RESIZE_WORKERS,")
	fmt.Fprintln(w, "  MEMORY_LIMIT, LOG_LEVEL")
}
