package loranodes

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewCommand creates a Cobra command tree for the LoRA node pack.
// The returned command should be added to a parent CLI's root command.
//
// Commands provided:
//   - loras resolve <ref>
//   - loras fetch <ref> [--endpoint] [--bucket] [--region]
//   - loras staged
//   - loras clear [--yes]
//   - loras nodes
//
// Global flags: --json, --quiet, --verbose, --staging
func NewCommand(cfg Config, opts ...NodeOption) *cobra.Command {
	var (
		jsonOutput bool
		quiet      bool
		verbose    bool
		stagingDir string
	)

	cmd := &cobra.Command{
		Use:   "loras",
		Short: "Manage staged LoRA files",
		Long:  "Fetch remote LoRA files into the staging directory and inspect the node pack.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// An explicit --staging beats the environment; otherwise the
			// usual env > config > default resolution applies.
			if stagingDir != "" {
				cfg.StagingDir = stagingDir
			} else {
				cfg.StagingDir = resolveStagingDir(cfg)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().StringVar(&stagingDir, "staging", "", "Override the staging directory")

	// Add subcommands
	cmd.AddCommand(resolveCmd())
	cmd.AddCommand(fetchCmd(&cfg, &quiet, &verbose, opts))
	cmd.AddCommand(stagedCmd(&cfg, &jsonOutput))
	cmd.AddCommand(clearCmd(&cfg, &quiet))
	cmd.AddCommand(nodesCmd(&jsonOutput))

	return cmd
}

func resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <ref>",
		Short: "Print the staging filename for a reference",
		Long:  "Print the local filename a bucket key or URL would be staged under.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "" {
				return fmt.Errorf("%w: empty reference", ErrInvalidRef)
			}

			resolver := newNameResolver()
			fmt.Fprintln(cmd.OutOrStdout(), resolver.localName(args[0]))
			return nil
		},
	}
}

func fetchCmd(cfg *Config, quiet, verbose *bool, nodeOpts []NodeOption) *cobra.Command {
	var (
		endpoint   string
		bucketName string
		region     string
	)

	cmd := &cobra.Command{
		Use:   "fetch <ref>",
		Short: "Stage a remote LoRA locally",
		Long:  "Download a LoRA by bucket key or URL into the staging directory.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ref := args[0]

			ncfg := newNodeConfig()
			for _, opt := range nodeOpts {
				opt(ncfg)
			}

			logger := ncfg.logger
			if logger == nil && *verbose {
				// The package Logger interface matches *slog.Logger.
				logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
					Level: slog.LevelDebug,
				}))
			}

			downloader := ncfg.downloader
			if downloader == nil {
				downloader = newBucketDownloader(logger)
			}

			bucket := cfg.Bucket.override(BucketConfig{
				EndpointURL: endpoint,
				Bucket:      bucketName,
				Region:      region,
			})

			f := newFetcher(cfg.StagingDir, NewDirIndex(), newURLFetcher(ncfg.httpClient, logger), downloader, logger)

			path, err := f.ensureLocal(ctx, ref, newNameResolver().localName(ref), bucket)
			if err != nil {
				return err
			}

			if *quiet {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Staged %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Override the bucket endpoint URL")
	cmd.Flags().StringVar(&bucketName, "bucket", "", "Override the bucket name")
	cmd.Flags().StringVar(&region, "region", "", "Override the bucket region")
	return cmd
}

func stagedCmd(cfg *Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "staged",
		Short: "List staged LoRA files",
		Long:  "List the files currently in the staging directory.",
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := ListStaged(cfg.StagingDir)
			if err != nil {
				return err
			}
			return outputStagedFiles(cmd.OutOrStdout(), files, *jsonOutput)
		},
	}
}

func clearCmd(cfg *Config, quiet *bool) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the staging directory",
		Long:  "Remove all staged LoRA files. The next fetch recreates the directory.",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := cfg.StagingDir

			if !yes {
				fmt.Fprintf(cmd.OutOrStdout(), "Clear staging directory %s? [y/N]: ", dir)
				if !confirmPrompt(cmd.InOrStdin()) {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			if err := resetStagingDir(dir); err != nil {
				return err
			}

			if !*quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", dir)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")
	return cmd
}

func nodesCmd(jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "nodes",
		Short: "List the node classes in this pack",
		Long:  "List the node classes with their display and live registration names.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return outputNodeClasses(cmd.OutOrStdout(), *jsonOutput)
		},
	}
}

func confirmPrompt(r io.Reader) bool {
	scanner := bufio.NewScanner(r)
	if scanner.Scan() {
		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		return response == "y" || response == "yes"
	}
	return false
}

// Output helpers

func outputStagedFiles(w io.Writer, files []StagedFile, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(files)
	}

	if len(files) == 0 {
		fmt.Fprintln(w, "No files staged")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSIZE\tMODIFIED")
	for _, f := range files {
		fmt.Fprintf(tw, "%s\t%s\t%s\n",
			f.Name,
			formatSize(f.Size),
			f.ModTime.Format("2006-01-02 15:04"),
		)
	}
	return tw.Flush()
}

// nodeClassRow is the JSON shape of one nodes-listing entry.
type nodeClassRow struct {
	Class       string `json:"class"`
	DisplayName string `json:"display_name"`
	LiveKey     string `json:"live_key"`
}

func outputNodeClasses(w io.Writer, asJSON bool) error {
	liveKeys := make(map[string]string, len(LiveNodeClassNames))
	for key, class := range LiveNodeClassNames {
		liveKeys[class] = key
	}

	classes := make([]string, 0, len(NodeDisplayNames))
	for class := range NodeDisplayNames {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	if asJSON {
		rows := make([]nodeClassRow, 0, len(classes))
		for _, class := range classes {
			rows = append(rows, nodeClassRow{
				Class:       class,
				DisplayName: NodeDisplayNames[class],
				LiveKey:     liveKeys[class],
			})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CLASS\tDISPLAY NAME\tLIVE KEY")
	for _, class := range classes {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", class, NodeDisplayNames[class], liveKeys[class])
	}
	return tw.Flush()
}

func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
