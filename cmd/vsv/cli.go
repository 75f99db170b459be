package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nao1215/vsv"
)

// errDetectionFailed is returned when at least one file could not be resolved
var errDetectionFailed = errors.New("one or more files could not be resolved")

// detectOptions holds the detect command flags
type detectOptions struct {
	output           string
	maxNumericFields int
}

// newRootCmd builds the command tree writing to the given streams
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetLevel(logrus.WarnLevel)

	opts := &detectOptions{}

	rootCmd := &cobra.Command{
		Use:   "vsv [flags] FILE...",
		Short: "Infer the field separator and header row of delimited files",
		Long: `vsv inspects CSV, TSV, pipe separated and unknown text files, XLSX workbooks
and Parquet files (optionally gzip, bzip2, xz or zstd compressed) and reports the
field separator, whether the first line is a header, and the datasets a table
loader would create.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				logger.SetLevel(logrus.TraceLevel)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd.OutOrStdout(), logger, opts, args)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	addDetectFlags(rootCmd, opts)

	detectCmd := &cobra.Command{
		Use:   "detect FILE...",
		Short: "Report separator, header flag and datasets for each file",
		Example: `  vsv detect sales.csv
  vsv detect -o yaml report.xlsx export.txt.gz
  vsv detect "exports/**/*.{csv,tsv}"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd.OutOrStdout(), logger, opts, args)
		},
	}
	addDetectFlags(detectCmd, opts)
	rootCmd.AddCommand(detectCmd)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "vsv\n")
			fmt.Fprintf(out, "Version:    %s\n", version)
			fmt.Fprintf(out, "Git Commit: %s\n", gitCommit)
			fmt.Fprintf(out, "Build Time: %s\n", buildTime)
		},
	}
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

// addDetectFlags registers the detect flags on cmd
func addDetectFlags(cmd *cobra.Command, opts *detectOptions) {
	cmd.Flags().StringVarP(&opts.output, "output", "o", "text", "output format: text, json or yaml")
	cmd.Flags().IntVar(&opts.maxNumericFields, "max-numeric-header-fields", vsv.DefaultMaxNumericFields,
		"number of numeric-looking fields a header line may contain")
}

// runDetect resolves every file and writes the reports in the requested format.
// Files that fail are reported and the remaining files are still processed.
func runDetect(out io.Writer, logger *logrus.Logger, opts *detectOptions, paths []string) error {
	format, err := parseOutputFormat(opts.output)
	if err != nil {
		return err
	}

	resolver := vsv.NewResolver(
		vsv.WithLogger(logger),
		vsv.WithHeaderRule(vsv.DefaultHeaderRule().WithMaxNumericFields(opts.maxNumericFields)),
	)

	reports := make([]report, 0, len(paths))
	failed := false
	for _, arg := range paths {
		files, err := expandPattern(arg)
		if err != nil {
			reports = append(reports, report{File: arg, Error: err.Error()})
			failed = true
			logger.WithField("pattern", arg).Warn(err)
		}
		for _, path := range files {
			rep := detectFile(resolver, path)
			if rep.Error != "" {
				failed = true
				logger.WithField("file", path).Warn(rep.Error)
			}
			reports = append(reports, rep)
		}
	}

	if err := writeReports(out, format, reports); err != nil {
		return err
	}
	if failed {
		return errDetectionFailed
	}
	return nil
}

// expandPattern returns the regular files matching a doublestar pattern such
// as "exports/**/*.csv". Arguments without glob syntax are returned as is.
func expandPattern(arg string) ([]string, error) {
	if !strings.ContainsAny(arg, "*?[{") {
		return []string{arg}, nil
	}

	matches, err := doublestar.FilepathGlob(arg)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern '%s': %w", arg, err)
	}

	files := make([]string, 0, len(matches))
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, match)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files match pattern '%s'", arg)
	}
	return files, nil
}

// detectFile reads and resolves a single file
func detectFile(resolver *vsv.Resolver, path string) report {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided path is necessary for file operations
	if err != nil {
		return report{File: path, Error: fmt.Sprintf("failed to read file: %v", err)}
	}

	result, err := resolver.Resolve(data, filepath.Base(path))
	if err != nil {
		if errors.Is(err, vsv.ErrUndeterminedSeparator) {
			return report{File: path, Error: "can't determine a field delimiter from the file suffix or contents"}
		}
		return report{File: path, Error: err.Error()}
	}
	return newReport(path, result)
}
