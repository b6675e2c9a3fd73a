package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noah-isme/edu-agent-api/internal/app"
	"github.com/noah-isme/edu-agent-api/internal/models"
	"github.com/noah-isme/edu-agent-api/pkg/config"
	"github.com/noah-isme/edu-agent-api/pkg/export"
	"github.com/noah-isme/edu-agent-api/pkg/logger"
)

// containerFactory builds the application for one command invocation.
type containerFactory func(ctx context.Context) (*app.Container, error)

func loadContainer(ctx context.Context) (*app.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return app.New(ctx, cfg, logr)
}

func newRootCmd(build containerFactory) *cobra.Command {
	root := &cobra.Command{
		Use:           "eduagent",
		Short:         "Educational assistant record store",
		Long:          `eduagent dispatches action descriptors and inspects the record collections without the HTTP server.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newDispatchCmd(build),
		newListCmd(build),
		newStatsCmd(build),
		newDeleteCmd(build),
		newExportCmd(build),
	)
	return root
}

// withContainer runs fn against a freshly built container and releases it afterwards.
func withContainer(cmd *cobra.Command, build containerFactory, fn func(ctx context.Context, c *app.Container) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	c, err := build(ctx)
	if err != nil {
		return err
	}
	c.Start(ctx)
	runErr := fn(ctx, c)
	return errors.Join(runErr, c.Close())
}

func newDispatchCmd(build containerFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "dispatch [text]",
		Short: "Dispatch text containing an action descriptor",
		Long: `Dispatch extracts the first action descriptor from the text and runs it.

Without an argument the text is read from standard input.

Examples:
  eduagent dispatch '{"action": "create_professeur", "nom": "Jean Dupont"}'
  echo '{"action": "get_stats"}' | eduagent dispatch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := dispatchInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			return withContainer(cmd, build, func(ctx context.Context, c *app.Container) error {
				result := c.Dispatcher.Dispatch(ctx, text)
				fmt.Fprintln(cmd.OutOrStdout(), result.Reply)
				return nil
			})
		},
	}
}

func dispatchInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	raw, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(string(raw), "\n"), nil
}

func newListCmd(build containerFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "list <collection>",
		Short: "Print the formatted listing of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, err := parseCollection(args[0])
			if err != nil {
				return err
			}
			return withContainer(cmd, build, func(ctx context.Context, c *app.Container) error {
				listing, err := c.Retriever.Listing(ctx, collection)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), listing)
				return nil
			})
		},
	}
}

func newStatsCmd(build containerFactory) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print collection counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withContainer(cmd, build, func(ctx context.Context, c *app.Container) error {
				if !asJSON {
					reply, err := c.Retriever.HandleStats(ctx, nil)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), reply)
					return nil
				}
				summary, err := c.Stats.Compute(ctx)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), summary)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print counts and the grade average as JSON")
	return cmd
}

func newDeleteCmd(build containerFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <collection> <id>",
		Short: "Delete one record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, err := parseCollection(args[0])
			if err != nil {
				return err
			}
			id, err := strconv.Atoi(args[1])
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid id %q", args[1])
			}
			return withContainer(cmd, build, func(ctx context.Context, c *app.Container) error {
				if err := c.Records.Delete(ctx, collection, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s %d\n", collection, id)
				return nil
			})
		},
	}
}

func newExportCmd(build containerFactory) *cobra.Command {
	var (
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export <collection>",
		Short: "Export a collection as CSV or PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, err := parseCollection(args[0])
			if err != nil {
				return err
			}
			parsed, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			return withContainer(cmd, build, func(ctx context.Context, c *app.Container) error {
				file, err := c.Exports.Export(ctx, collection, parsed)
				if err != nil {
					return err
				}
				target := out
				if target == "" {
					target = file.Filename
				}
				if target == "-" {
					_, err := cmd.OutOrStdout().Write(file.Body)
					return err
				}
				if err := os.WriteFile(target, file.Body, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", target, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d rows to %s\n", file.Rows, target)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", string(export.FormatCSV), "csv or pdf")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, - for stdout (default <collection>.<format>)")
	return cmd
}

func parseCollection(raw string) (models.Collection, error) {
	collection, ok := models.ParseCollection(raw)
	if !ok {
		names := make([]string, len(models.Collections))
		for i, c := range models.Collections {
			names[i] = string(c)
		}
		return "", fmt.Errorf("unknown collection %q (want one of %s)", raw, strings.Join(names, ", "))
	}
	return collection, nil
}
