package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/taigrr/codecollector/internal/collector"
	"github.com/taigrr/codecollector/internal/config"
	"github.com/taigrr/codecollector/internal/logger"
	"github.com/taigrr/codecollector/internal/pathfilter"
	"github.com/taigrr/codecollector/internal/report"
	"github.com/taigrr/codecollector/internal/types"
)

// options holds the flag values of one command. Unset flags stay empty so
// they do not override the environment or the config file.
type options struct {
	flags      config.Config
	configPath string
	dryRun     bool
}

// resolve merges defaults, the config file, the environment and the flags,
// in increasing order of precedence.
func (o *options) resolve() (config.Config, error) {
	cfg := config.Default()

	dir := o.flags.Directory
	if dir == "" {
		dir = config.DefaultDirectory
	}
	if path := config.FindFile(o.configPath, dir); path != "" {
		fileCfg, err := config.LoadFile(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = cfg.Merge(fileCfg)
	}

	cfg = cfg.Merge(config.LoadEnv())
	return cfg.Merge(o.flags), nil
}

func newLogger(cfg config.Config) *logger.Logger {
	return logger.New(os.Stderr, logger.ParseLevel(cfg.EffectiveLogLevel()))
}

func newService(cfg config.Config) *collector.Service {
	selection := cfg.Selection
	return collector.New(pathfilter.New(cfg.Directory, &selection), newLogger(cfg))
}

func addCommonFlags(cmd *cobra.Command, o *options) {
	f := cmd.Flags()
	f.StringVar(&o.configPath, "config", "", "YAML rules file (default: "+config.FileName+" in the base directory)")
	f.BoolVarP(&o.flags.Verbose, "verbose", "v", false, "log progress at debug level")
}

func addSelectionFlags(cmd *cobra.Command, o *options) {
	s := &o.flags.Selection
	f := cmd.Flags()
	f.StringVarP(&o.flags.Directory, "directory", "d", "", "base directory (default \".\")")
	f.StringArrayVarP(&s.IncludedExtensions, "include-ext", "i", nil, "extensions to include, e.g. py js")
	f.StringArrayVarP(&s.ExcludedExtensions, "exclude-ext", "e", nil, "extensions to exclude")
	f.StringArrayVarP(&s.ExcludedPaths, "exclude-paths", "x", nil, "directories to exclude, relative to the base")
	f.StringArrayVar(&s.IncludedPaths, "include-paths", nil, "directories to restrict selection to (legacy -ip)")
	f.StringArrayVar(&s.IncludedFiles, "include-files", nil, "only collect these files (legacy -if)")
	f.StringArrayVar(&s.ExcludedFiles, "exclude-files", nil, "files to exclude (legacy -ef)")
	addCommonFlags(cmd, o)
}

func newCollectCmd() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect selected files into a single artifact",
		Long: `Collect walks the base directory, writes every selected non-empty file into
the artifact with a metadata header, writes the metadata sidecar and prints
an analysis report.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.resolve()
			if err != nil {
				return err
			}
			return runCollect(cmd.OutOrStdout(), newService(cfg), cfg)
		},
	}
	addSelectionFlags(cmd, o)
	cmd.Flags().StringVarP(&o.flags.Output, "output", "o", "", "artifact file (default \""+config.DefaultOutput+"\")")
	cmd.Flags().StringVar(&o.flags.MetadataFile, "metadata", "", "metadata sidecar file (default \""+config.DefaultMetadataFile+"\")")
	return cmd
}

func runCollect(w io.Writer, svc *collector.Service, cfg config.Config) error {
	result, err := svc.Collect(collector.CollectOptions{
		Output:       cfg.Output,
		MetadataFile: cfg.MetadataFile,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Collected %d files into %s\n", len(result.Encoded.Written), result.Output)
	fmt.Fprintf(w, "Metadata written to %s\n", result.MetadataFile)
	if n := len(result.Encoded.Errors); n > 0 {
		fmt.Fprintf(w, "Skipped %d unreadable files\n", n)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, report.Format(result.Analysis))
	return nil
}

func newRestoreCmd() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:   "restore INPUT_FILE",
		Short: "Recreate a directory tree from an artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.resolve()
			if err != nil {
				return err
			}
			if o.dryRun {
				return runPreview(cmd.OutOrStdout(), args[0], cfg.Target)
			}
			return runRestore(cmd.OutOrStdout(), args[0], cfg.Target, newLogger(cfg))
		},
	}
	cmd.Flags().StringVarP(&o.flags.Target, "target", "t", "", "target directory (default \""+config.DefaultTarget+"\")")
	cmd.Flags().BoolVar(&o.dryRun, "dry-run", false, "print a diff against the target instead of writing")
	addCommonFlags(cmd, o)
	return cmd
}

func runRestore(w io.Writer, input, target string, log *logger.Logger) error {
	result, err := collector.Restore(input, target, log)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Restored %d files (%s) to %s\n",
		len(result.Restored), humanize.Bytes(uint64(result.Bytes)), result.Target)
	if len(result.Failed) > 0 {
		fmt.Fprintf(w, "Failed to restore %d files:\n", len(result.Failed))
		for _, f := range result.Failed {
			fmt.Fprintf(w, "  - %s\n", f)
		}
	}
	return nil
}

func runPreview(w io.Writer, input, target string) error {
	previews, err := collector.Preview(input, target)
	if err != nil {
		return err
	}

	counts := map[string]int{}
	for _, p := range previews {
		counts[p.Status]++
		switch p.Status {
		case types.PreviewInvalid:
			fmt.Fprintf(w, "%s: %s (%s)\n", p.Path, p.Status, p.Error)
		case types.PreviewUnchanged:
			fmt.Fprintf(w, "%s: %s\n", p.Path, p.Status)
		default:
			fmt.Fprintf(w, "%s: %s\n%s", p.Path, p.Status, p.Diff)
		}
	}
	fmt.Fprintf(w, "Dry run: %d new, %d changed, %d unchanged, %d invalid\n",
		counts[types.PreviewNew], counts[types.PreviewChanged],
		counts[types.PreviewUnchanged], counts[types.PreviewInvalid])
	return nil
}

func newAnalyzeCmd() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Print heuristic statistics for the selected files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.resolve()
			if err != nil {
				return err
			}
			result, err := newService(cfg).Analyze()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.Format(result))
			return nil
		},
	}
	addSelectionFlags(cmd, o)
	return cmd
}

func newStatsCmd() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print directory and file counts for the selected files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.resolve()
			if err != nil {
				return err
			}
			tree, err := newService(cfg).Stats()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.FormatStats(tree))
			return nil
		},
	}
	addSelectionFlags(cmd, o)
	return cmd
}
