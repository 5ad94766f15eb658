package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/pyreview/internal/cache"
	"github.com/dshills/pyreview/internal/config"
	"github.com/dshills/pyreview/internal/gitctx"
	"github.com/dshills/pyreview/internal/output"
	"github.com/dshills/pyreview/internal/review"
)

// Shared review flags
var (
	flagFormat            string
	flagOut               string
	flagFailOn            string
	flagMaxLineLength     int
	flagMaxFunctionLength int
	flagJobs              int
	flagNoCache           bool
)

func addReviewFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json, markdown, sarif)")
	cmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&flagFailOn, "fail-on", "", "Exit non-zero on this verdict (none, request_changes)")
	cmd.Flags().IntVar(&flagMaxLineLength, "max-line-length", 0, "Maximum characters per line")
	cmd.Flags().IntVar(&flagMaxFunctionLength, "max-function-length", 0, "Maximum lines per function")
	cmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Do not read or write cached results")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagFailOn != "" {
		m["fail_on"] = flagFailOn
	}
	if flagMaxLineLength > 0 {
		m["max_line_length"] = strconv.Itoa(flagMaxLineLength)
	}
	if flagMaxFunctionLength > 0 {
		m["max_function_length"] = strconv.Itoa(flagMaxFunctionLength)
	}
	if flagJobs > 0 {
		m["jobs"] = strconv.Itoa(flagJobs)
	}
	if flagNoCache {
		m["cache.enabled"] = "false"
	}
	return m
}

// session holds what every review subcommand needs once config is resolved.
type session struct {
	cfg      config.Config
	reviewer *review.Reviewer
	cache    *cache.Cache
}

func newSession(cfg config.Config) (*session, error) {
	opts := cfg.ReviewOptions()
	opts.Logger = logger
	reviewer, err := review.New(opts)
	if err != nil {
		return nil, err
	}
	c, err := cache.New(cfg.Cache.Enabled, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	return &session{cfg: cfg, reviewer: reviewer, cache: c}, nil
}

// reviewCode reviews one input, consulting the cache first.
func (s *session) reviewCode(path, code string) review.FileReport {
	fp := s.reviewer.Fingerprint()
	if res, ok := s.cache.Lookup(fp, code); ok {
		logger.Debug("cache hit", zap.String("path", path), zap.String("fingerprint", fp))
		return review.FileReport{Path: path, Cached: true, Result: res}
	}

	res := s.reviewer.Review(code)
	if err := s.cache.Store(fp, code, res); err != nil {
		logger.Warn("cache write failed", zap.String("path", path), zap.Error(err))
	}
	return review.FileReport{Path: path, Result: res}
}

// reviewAll reviews n inputs concurrently, keeping input order. load returns
// the path and code of input i.
func (s *session) reviewAll(ctx context.Context, n int, load func(i int) (string, string, error)) ([]review.FileReport, error) {
	files := make([]review.FileReport, n)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Jobs)
	for i := range n {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path, code, err := load(i)
			if err != nil {
				return err
			}
			files[i] = s.reviewCode(path, code)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// reviewFiles reads and reviews paths from disk.
func (s *session) reviewFiles(ctx context.Context, paths []string) ([]review.FileReport, error) {
	return s.reviewAll(ctx, len(paths), func(i int) (string, string, error) {
		data, err := os.ReadFile(paths[i])
		if err != nil {
			return "", "", fmt.Errorf("reading %s: %w", paths[i], err)
		}
		return paths[i], string(data), nil
	})
}

// reviewSources reviews files already loaded from git.
func (s *session) reviewSources(ctx context.Context, sources []gitctx.File) ([]review.FileReport, error) {
	return s.reviewAll(ctx, len(sources), func(i int) (string, string, error) {
		return sources[i].Path, sources[i].Content, nil
	})
}

// emit writes the report and sets the exit code per the fail-on policy.
func emit(cmd *cobra.Command, report *review.Report, cfg config.Config) {
	var err error
	if flagOut != "" {
		err = output.WriteReport(report, cfg.Format, flagOut)
	} else {
		err = writeTo(cmd.OutOrStdout(), report, cfg.Format)
	}
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error writing output: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	if cfg.FailOn == config.FailOnRequestChanges && report.ChangesRequested() {
		exitCode = ExitFindings
	}
}

func writeTo(w io.Writer, report *review.Report, format string) error {
	writer, err := output.GetWriter(format)
	if err != nil {
		return err
	}
	return writer.Write(w, report)
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review Python code",
	Long:  "Review Python code from files, git, or stdin. Use subcommands to specify what to review.",
}

var reviewFileCmd = &cobra.Command{
	Use:   "file <path>...",
	Short: "Review one or more Python files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		s, err := newSession(cfg)
		if err != nil {
			return err
		}

		files, err := s.reviewFiles(cmd.Context(), args)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		logger.Debug("review complete", zap.Int("files", len(files)))
		emit(cmd, review.NewReport(version, files), cfg)
		return nil
	},
}

var (
	flagInclude string
	flagExclude string
)

func splitComma(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func buildSelection() gitctx.Selection {
	return gitctx.Selection{
		Include: splitComma(flagInclude),
		Exclude: splitComma(flagExclude),
	}
}

type gitMode func(ctx context.Context, sel gitctx.Selection) ([]gitctx.File, error)

// newGitReviewCmd builds a subcommand reviewing the Python files a git mode
// selects.
func newGitReviewCmd(use, short string, mode gitMode) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(buildOverrides())
			if err != nil {
				return err
			}
			s, err := newSession(cfg)
			if err != nil {
				return err
			}

			root, err := gitctx.RepoRoot(cmd.Context())
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				exitCode = ExitRuntimeError
				return nil
			}
			logger.Debug("reviewing repository", zap.String("root", root), zap.String("mode", use))

			sources, err := mode(cmd.Context(), buildSelection())
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				exitCode = ExitRuntimeError
				return nil
			}
			if len(sources) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "No Python files to review.")
			}

			files, err := s.reviewSources(cmd.Context(), sources)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				exitCode = ExitRuntimeError
				return nil
			}
			emit(cmd, review.NewReport(version, files), cfg)
			return nil
		},
	}
}

var (
	reviewStagedCmd   = newGitReviewCmd("staged", "Review staged Python files (index content)", gitctx.Staged)
	reviewUnstagedCmd = newGitReviewCmd("unstaged", "Review Python files with unstaged changes", gitctx.Unstaged)
	reviewTrackedCmd  = newGitReviewCmd("tracked", "Review every tracked Python file", gitctx.Tracked)
)

var (
	flagSnippetCode string
	flagSnippetPath string
)

var reviewSnippetCmd = &cobra.Command{
	Use:   "snippet",
	Short: "Review code from stdin or --code",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		s, err := newSession(cfg)
		if err != nil {
			return err
		}

		code := flagSnippetCode
		if !cmd.Flags().Changed("code") {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error reading stdin: %v\n", err)
				exitCode = ExitRuntimeError
				return nil
			}
			code = string(data)
		}

		file := s.reviewCode(strings.TrimSpace(flagSnippetPath), code)
		emit(cmd, review.NewReport(version, []review.FileReport{file}), cfg)
		return nil
	},
}

func init() {
	reviewCmd.AddCommand(reviewFileCmd)
	reviewCmd.AddCommand(reviewSnippetCmd)
	reviewCmd.AddCommand(reviewStagedCmd)
	reviewCmd.AddCommand(reviewUnstagedCmd)
	reviewCmd.AddCommand(reviewTrackedCmd)

	multiFile := []*cobra.Command{reviewFileCmd, reviewStagedCmd, reviewUnstagedCmd, reviewTrackedCmd}
	for _, cmd := range append(multiFile, reviewSnippetCmd) {
		addReviewFlags(cmd)
	}
	for _, cmd := range multiFile {
		cmd.Flags().IntVarP(&flagJobs, "jobs", "j", 0, "Number of files reviewed in parallel (default: CPU count)")
	}
	for _, cmd := range multiFile[1:] {
		cmd.Flags().StringVar(&flagInclude, "include", "", "Include path globs (comma-separated, default: **/*.py)")
		cmd.Flags().StringVar(&flagExclude, "exclude", "", "Exclude path globs (comma-separated)")
	}

	reviewSnippetCmd.Flags().StringVar(&flagSnippetCode, "code", "", "Code to review instead of reading stdin")
	reviewSnippetCmd.Flags().StringVar(&flagSnippetPath, "path", "", "Label for the snippet in reports")
}
