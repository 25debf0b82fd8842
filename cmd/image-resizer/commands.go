package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"sync"
	"time"
	"unicode"

	"image-resizer/internal/database"
	"image-resizer/internal/logging"
	"image-resizer/internal/media"
	"image-resizer/internal/memory"
	"image-resizer/internal/metrics"
	"image-resizer/internal/workers"

	"golang.org/x/time/rate"
)

// resolveResult is the JSON form of a media.Outcome.
type resolveResult struct {
	ID     int64            `json:"id"`
	Status string           `json:"status"`
	Image  *media.Thumbnail `json:"image,omitempty"`
	Reason string           `json:"reason,omitempty"`
}

func newResolveResult(id int64, out media.Outcome) resolveResult {
	r := resolveResult{ID: id, Status: out.Status.String(), Image: out.Thumbnail}
	if out.Err != nil {
		r.Reason = out.Err.Error()
	}
	return r
}

type registerResult struct {
	ID     int64  `json:"id"`
	Path   string `json:"path"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type warmSummary struct {
	Size     string         `json:"size"`
	Total    int            `json:"total"`
	Outcomes map[string]int `json:"outcomes"`
	Duration string         `json:"duration"`
}

// parseSizeArg reads a command-line size: dimension strings start with a
// digit, anything else names a size.
func parseSizeArg(arg string) media.SizeRequest {
	if arg != "" && unicode.IsDigit(rune(arg[0])) {
		return media.DimensionString(arg)
	}
	return media.Preset(arg)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid attachment id %q", arg)
	}
	return id, nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func (a *app) register(ctx context.Context, args []string) int {
	if len(args) < 1 || len(args) > 2 {
		logging.Error("usage: register <file> [url]")
		return 2
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		logging.Error("Invalid path %s: %v", args[0], err)
		return 1
	}

	dims, err := media.ProbeDimensions(path)
	if err != nil {
		logging.Error("Cannot read image %s: %v", path, err)
		return 1
	}

	url := ""
	if len(args) == 2 {
		url = args[1]
	} else if url, err = a.cfg.UploadURL(path); err != nil {
		logging.Error("%v; pass the public URL explicitly", err)
		return 1
	}

	id, err := a.db.RegisterAttachment(ctx, database.Attachment{
		FilePath:    path,
		URL:         url,
		Width:       dims.Width,
		Height:      dims.Height,
		HasMetadata: true,
	})
	if err != nil {
		logging.Error("Failed to register %s: %v", path, err)
		return 1
	}

	logging.Info("Registered %s as attachment %d (%dx%d)", filepath.Base(path), id, dims.Width, dims.Height)
	return writeOrFail(a.output, registerResult{ID: id, Path: path, URL: url, Width: dims.Width, Height: dims.Height})
}

func (a *app) resolve(ctx context.Context, args []string) int {
	fs := newFlagSet("resolve")
	retina := fs.Bool("retina", false, "resolve the @2x variant")
	if err := fs.Parse(reorderFlags(args)); err != nil || fs.NArg() != 2 {
		logging.Error("usage: resolve <id> <size> [--retina]")
		return 2
	}

	id, err := parseID(fs.Arg(0))
	if err != nil {
		logging.Error("%v", err)
		return 2
	}

	out := a.resolver.Resolve(ctx, id, parseSizeArg(fs.Arg(1)), *retina)
	if code := writeOrFail(a.output, newResolveResult(id, out)); code != 0 {
		return code
	}
	if !out.OK() {
		return 1
	}
	return 0
}

func (a *app) sizes(ctx context.Context, args []string) int {
	if len(args) != 1 {
		logging.Error("usage: sizes <id>")
		return 2
	}

	id, err := parseID(args[0])
	if err != nil {
		logging.Error("%v", err)
		return 2
	}

	sizes, err := a.db.SizeMetadata(ctx, id)
	if errors.Is(err, media.ErrNoMetadata) {
		logging.Error("Attachment %d has no size metadata", id)
		return 1
	}
	if err != nil {
		logging.Error("Failed to read sizes of attachment %d: %v", id, err)
		return 1
	}

	return writeOrFail(a.output, sizes)
}

func (a *app) warm(ctx context.Context, args []string) int {
	fs := newFlagSet("warm")
	perSecond := fs.Float64("rate", 0, "maximum resolves per second, 0 for no limit")
	if err := fs.Parse(reorderFlags(args)); err != nil || fs.NArg() != 1 || *perSecond < 0 {
		logging.Error("usage: warm <size> [--rate=N]")
		return 2
	}
	size := fs.Arg(0)
	req := parseSizeArg(size)

	var limiter *rate.Limiter
	if *perSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(*perSecond), 1)
	}

	ids, err := a.db.ListAttachmentIDs(ctx)
	if err != nil {
		logging.Error("Failed to list attachments: %v", err)
		return 1
	}

	start := time.Now()
	outcomes := runWarm(ctx, a.resolver, ids, req, workers.ForCPU(database.MaxOpenConns-1), limiter)
	duration := time.Since(start)
	metrics.WarmRunDuration.Set(duration.Seconds())

	if ctx.Err() != nil {
		logging.Warn("Warm run interrupted")
	} else if err := a.db.SetLastWarmRun(ctx, time.Now()); err != nil {
		logging.Warn("Failed to record warm run: %v", err)
	}

	logging.Info("Warmed %s for %d attachments in %v", size, len(ids), duration.Round(time.Millisecond))
	return writeOrFail(a.output, warmSummary{
		Size:     size,
		Total:    len(ids),
		Outcomes: outcomes,
		Duration: duration.Round(time.Millisecond).String(),
	})
}

// runWarm resolves req for every id on a pool of n workers and counts the
// outcomes by status. A non-nil limiter paces how fast ids are handed out.
func runWarm(ctx context.Context, resolver *media.ThumbnailResolver, ids []int64, req media.SizeRequest, n int, limiter *rate.Limiter) map[string]int {
	monitor := memory.NewMonitor(memory.DefaultConfig())
	monitor.Start()
	defer monitor.Stop()
	// Release paused workers on interrupt.
	stop := context.AfterFunc(ctx, monitor.Stop)
	defer stop()

	jobs := make(chan int64)
	var mu sync.Mutex
	outcomes := map[string]int{}

	var wg sync.WaitGroup
	for range n {
		wg.Go(func() {
			for id := range jobs {
				if !monitor.WaitIfPaused() {
					continue
				}
				out := resolver.Resolve(ctx, id, req, false)
				status := out.Status.String()
				metrics.WarmAttachmentsTotal.WithLabelValues(status).Inc()
				if out.Err != nil {
					logging.Debug("Attachment %d: %s (%v)", id, status, out.Err)
				}

				mu.Lock()
				outcomes[status]++
				mu.Unlock()
			}
		})
	}

	logging.Debug("Warming %d attachments with %d workers", len(ids), n)
feed:
	for _, id := range ids {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				break feed
			}
		}
		select {
		case jobs <- id:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	return outcomes
}

// reorderFlags moves flags ahead of positional arguments so they may be
// given in any position. Valued flags must use the --name=value form.
func reorderFlags(args []string) []string {
	var flags, positional []string
	for _, arg := range args {
		if len(arg) > 1 && arg[0] == '-' {
			flags = append(flags, arg)
		} else {
			positional = append(positional, arg)
		}
	}
	return append(flags, positional...)
}
