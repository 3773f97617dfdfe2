// Package main provides the verse binary: the HTTP service and a few
// one-shot commands hitting the same pipeline from a terminal.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/verse/internal/app"
	"github.com/MrSnakeDoc/verse/internal/config"
	"github.com/MrSnakeDoc/verse/internal/dispatch"
	"github.com/MrSnakeDoc/verse/internal/logger"
	"github.com/MrSnakeDoc/verse/internal/version"
)

const appName = "verse"

func main() {
	// config.Load panics on fatal misconfiguration
	defer func() {
		if r := recover(); r != nil {
			_, _ = fmt.Fprintf(os.Stderr, "%v\n", r)
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "❌ %s: %v\n", appName, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		storeURL string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Scripture reference resolver",
		Long: `Verse resolves short scripture references such as "Мф. 5:3-12"
against an eXist XML store and renders chat-ready replies.

Configuration comes from VERSE_* environment variables; the flags below
override them.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cmd.Flags().Changed("store-url") {
				_ = os.Setenv("VERSE_STORE_URL", storeURL)
			}
			if cmd.Flags().Changed("log-level") {
				_ = os.Setenv("VERSE_LOG_LEVEL", logLevel)
			}
		},
	}

	cmd.PersistentFlags().StringVar(&storeURL, "store-url", "", "eXist REST document URL (overrides VERSE_STORE_URL)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides VERSE_LOG_LEVEL)")

	cmd.AddCommand(
		serveCmd(),
		lookupCmd(),
		oneShotCmd("books", "List the books of the corpus", 0),
		oneShotCmd("stats <abbr>", "Show verse counts per chapter of a book", 1),
		versionCmd(),
	)

	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := logger.New(cfg.LogLevel, cfg.PrettyLog)
			defer func() { _ = log.Sync() }()

			a, err := app.New(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}
}

func lookupCmd() *cobra.Command {
	var inline bool

	cmd := &cobra.Command{
		Use:   "lookup <reference>",
		Short: `Resolve a reference, e.g. verse lookup "Мф. 5:3-12"`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			surface := dispatch.SurfaceMessage
			if inline {
				surface = dispatch.SurfaceInline
			}
			return runOnce(cmd.Context(), dispatch.Request{Surface: surface, Text: strings.Join(args, " ")})
		},
	}
	cmd.Flags().BoolVar(&inline, "inline", false, "Answer as an inline query and print the suggestions as JSON")

	return cmd
}

// oneShotCmd maps a subcommand onto the chat command of the same name.
func oneShotCmd(use, short string, nargs int) *cobra.Command {
	name, _, _ := strings.Cut(use, " ")
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace("/" + name + " " + strings.Join(args, " "))
			return runOnce(cmd.Context(), dispatch.Request{Surface: dispatch.SurfaceMessage, Text: text})
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s %s (commit=%s, built=%s, go=%s)\n",
				appName, version.Version, version.Commit, version.BuildDate, version.GoVersion)
		},
	}
}

// runOnce dispatches a single request and prints the reply on stdout.
func runOnce(ctx context.Context, req dispatch.Request) error {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.PrettyLog)
	defer func() { _ = log.Sync() }()

	store, err := app.NewStoreClient(cfg, nil)
	if err != nil {
		return err
	}
	cat, err := app.LoadCatalog(cfg)
	if err != nil {
		return err
	}

	reply := dispatch.New(store, cat, log, nil).Dispatch(ctx, req)
	return writeReply(os.Stdout, reply)
}

// writeReply prints message text as is and inline results as a JSON array.
// An inline reply without results prints [].
func writeReply(w io.Writer, reply dispatch.Reply) error {
	if reply.Surface == dispatch.SurfaceInline {
		results := reply.Results
		if results == nil {
			results = []dispatch.InlineResult{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	_, err := fmt.Fprintln(w, reply.Text)
	return err
}
