package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"maskfield/internal/logging"
	"maskfield/internal/mask"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var batchJobs int

// batchCmd masks every line of its inputs
var batchCmd = &cobra.Command{
	Use:   "batch <template|@preset> [file...]",
	Short: "Mask every line of files or stdin",
	Long: `Masks each input line and prints "masked<TAB>clean".

Files are read concurrently; output keeps the order of the arguments.
With no files, stdin is read.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVarP(&batchJobs, "jobs", "j", 4, "Files processed concurrently")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	tmpl, err := cfg.ResolveTemplate(args[0])
	if err != nil {
		return err
	}

	timer := logging.StartTimer(logging.CategoryMask, "batch")
	defer timer.Stop()

	ctx := commandContext(cmd)
	files := args[1:]
	w := cmd.OutOrStdout()

	if len(files) == 0 {
		results, err := maskLines(ctx, tmpl, cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		logging.Mask("batch masked %d stdin lines with %q", len(results), tmpl.Pattern())
		return writeResults(w, results)
	}

	jobs := batchJobs
	if jobs < 1 {
		jobs = 1
	}

	results := make([][]mask.Result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer f.Close()

			res, err := maskLines(gctx, tmpl, f)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			results[i] = res
			logger.Debug("masked file", zap.String("path", path), zap.Int("lines", len(res)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	logging.Mask("batch masked %d files with %q", len(files), tmpl.Pattern())

	for _, res := range results {
		if err := writeResults(w, res); err != nil {
			return err
		}
	}
	return nil
}

// maskLines masks each line of r. Lines may be any length; a trailing "\r"
// is dropped and a final line without a newline still counts.
func maskLines(ctx context.Context, tmpl mask.Template, r io.Reader) ([]mask.Result, error) {
	var out []mask.Result
	br := bufio.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		if line == "" && err == io.EOF {
			return out, nil
		}

		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")
		out = append(out, tmpl.Apply(line))

		if err == io.EOF {
			return out, nil
		}
	}
}

func writeResults(w io.Writer, results []mask.Result) error {
	bw := bufio.NewWriter(w)
	for _, r := range results {
		fmt.Fprintf(bw, "%s\t%s\n", r.Masked, r.Clean)
	}
	return bw.Flush()
}
