package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"sprite-index/feature/sprite/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// IndexFile is the name of the output listing written next to the sprites.
const IndexFile = "index.json"

// Runner executes an external command and returns its captured stderr.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs commands through os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.String(), err
}

// Options configures the conversion step.
type Options struct {
	Binary    string
	Fuzz      string
	Workers   int
	InputDir  string
	OutputDir string
	Extension string
}

// Report summarizes a conversion run.
type Report struct {
	Converted int      `json:"converted"`
	Copied    int      `json:"copied"`
	Failed    []string `json:"failed,omitempty"`
	// Written lists the output names actually produced, in index order.
	Written []string `json:"written"`
}

// Converter trims every source once and copies the result to the other
// outputs of the same source.
type Converter struct {
	runner Runner
	opts   Options
	logger *zap.Logger
	diag   *models.Diagnostics
}

// New creates a converter. A nil runner uses ExecRunner.
func New(runner Runner, opts Options, logger *zap.Logger, diag *models.Diagnostics) *Converter {
	if runner == nil {
		runner = ExecRunner{}
	}
	if opts.Binary == "" {
		opts.Binary = "convert"
	}
	if opts.Fuzz == "" {
		opts.Fuzz = "1%"
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Extension == "" {
		opts.Extension = ".png"
	}
	return &Converter{runner: runner, opts: opts, logger: logger, diag: diag}
}

// Apply converts the index into OutputDir. A failed source is logged and
// skipped; only context cancellation aborts the run.
func (c *Converter) Apply(ctx context.Context, idx models.Index) (Report, error) {
	if err := os.MkdirAll(c.opts.OutputDir, 0o755); err != nil {
		return Report{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	var (
		mu     sync.Mutex
		report Report
		failed = make(map[string]bool)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Workers)

	for _, group := range idx.Groups() {
		group := group
		g.Go(func() error {
			converted, copied, lost, err := c.applyGroup(gctx, group)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			report.Converted += converted
			report.Copied += copied
			for _, name := range lost {
				failed[name] = true
				report.Failed = append(report.Failed, name)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	for _, in := range idx.Instructions {
		if !failed[in.Output] {
			report.Written = append(report.Written, in.Output)
		}
	}
	return report, nil
}

func (c *Converter) applyGroup(ctx context.Context, group []models.Instruction) (converted, copied int, lost []string, err error) {
	primary := group[0]
	src := filepath.Join(c.opts.InputDir, primary.Source)
	dst := c.outputPath(primary.Output)

	stderr, runErr := c.runner.Run(ctx, c.opts.Binary, "-trim", "-fuzz", c.opts.Fuzz, src, dst)
	if runErr != nil {
		if ctx.Err() != nil {
			return 0, 0, nil, ctx.Err()
		}
		c.logger.Error("Failed to convert",
			zap.String("source", src), zap.String("stderr", stderr), zap.Error(runErr))
		c.diag.Add(models.DiagConversionFailed, primary.Source, runErr.Error())
		for _, in := range group {
			lost = append(lost, in.Output)
		}
		return 0, 0, lost, nil
	}
	converted = 1

	for _, in := range group[1:] {
		if err := CopyFile(dst, c.outputPath(in.Output)); err != nil {
			c.logger.Error("Failed to copy converted sprite",
				zap.String("source", dst), zap.String("output", in.Output), zap.Error(err))
			c.diag.Add(models.DiagConversionFailed, in.Output, err.Error())
			lost = append(lost, in.Output)
			continue
		}
		copied++
	}
	return converted, copied, lost, nil
}

func (c *Converter) outputPath(name string) string {
	return filepath.Join(c.opts.OutputDir, name+c.opts.Extension)
}

// CopyFile copies src to dst, truncating dst.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// WriteIndex writes the output names as a JSON array to dir/index.json.
func WriteIndex(dir string, names []string) error {
	if names == nil {
		names = []string{}
	}
	data, err := json.Marshal(names)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, IndexFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	return nil
}

// ReadIndex reads a listing written by WriteIndex.
func ReadIndex(dir string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(dir, IndexFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("failed to decode index: %w", err)
	}
	return names, nil
}
