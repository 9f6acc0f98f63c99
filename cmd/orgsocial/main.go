package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/studiowebux/orgsocial/internal/cli"
	"github.com/studiowebux/orgsocial/internal/config"
	"github.com/studiowebux/orgsocial/internal/history"
	"github.com/studiowebux/orgsocial/internal/keybinds"
	"github.com/studiowebux/orgsocial/internal/logging"
	"github.com/studiowebux/orgsocial/internal/orgsocial"
	"github.com/studiowebux/orgsocial/internal/tui"
	"github.com/studiowebux/orgsocial/internal/version"
)

var (
	appVersion = "0.1.0"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "orgsocial",
	Short: "Terminal client for org-social feeds",
	Long: `orgsocial reads your social.org, the feeds you follow, and lets you
reply, post and vote from an interactive TUI.

Run without arguments to start the TUI. Subcommands print the feed and
related information without it.

Examples:
  orgsocial                            # Start interactive TUI
  orgsocial -f ~/blog/social.org       # Use another social file
  orgsocial feed --count 5             # Latest five posts
  orgsocial feed --search emacs        # Fuzzy search posts
  orgsocial feed --filter "[?tags]" --query "[].id"
  orgsocial stats --verbose            # Per-feed statistics
  orgsocial keybinds export            # Write keybinds.json with the defaults`,
	Version:           appVersion,
	Args:              cobra.NoArgs,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(orgsocial.TimelineOptions{})
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the interactive TUI",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(orgsocial.TimelineOptions{
			UserOnly: flagUserOnly,
			Source:   flagSource,
			Days:     flagDays,
		})
	},
}

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Print the timeline",
	Long: `Print your posts and the posts of the feeds you follow, newest first.

--filter and --query take JMESPath expressions applied to the JSON listing.
--query also accepts $(command) to pipe the listing through a shell command.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		source := flagSource
		if flagPick {
			local, err := orgsocial.ParseFile(state.env.SocialPath)
			if err != nil {
				return err
			}
			source, err = cli.PickFollow(local.Profile.Follows)
			if err != nil {
				return err
			}
		}

		count := flagCount
		if !cmd.Flags().Changed("count") {
			count = state.cfg.DefaultFeedCount
		}

		return cli.Feed(ctx, state.env, cli.FeedOptions{
			Count:    count,
			UserOnly: flagUserOnly,
			Source:   source,
			Days:     flagDays,
			Search:   flagSearch,
			Tags:     flagTags,
			Output:   flagOutput,
			Filter:   flagFilter,
			Query:    flagQuery,
		})
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Profile(state.env)
	},
}

var followingCmd = &cobra.Command{
	Use:   "following",
	Short: "List followed feeds",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Following(state.env)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show feed statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return cli.ShowStats(ctx, state.env, flagVerbose)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List posts submitted from this client",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := history.NewManager(config.DatabasePath)
		if err != nil {
			return err
		}
		defer mgr.Close()
		return cli.History(state.env, mgr, flagLimit)
	},
}

var keybindsCmd = &cobra.Command{
	Use:   "keybinds",
	Short: "Manage keyboard shortcuts",
}

var keybindsExportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Write the default keybindings to keybinds.json",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.KeybindsPath
		if len(args) > 0 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil && !flagForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := keybinds.CreateExampleConfig(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Keybindings written to %s\n", path)
		return nil
	},
}

var keybindsValidateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Check keybinds.json for conflicts and unknown actions",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.KeybindsPath
		if len(args) > 0 {
			path = args[0]
		}
		kbConfig, err := keybinds.LoadConfig(path)
		if err != nil {
			return err
		}

		result := keybinds.NewValidator().ValidateConfig(kbConfig)
		fmt.Fprint(cmd.OutOrStdout(), result.String())
		if result.HasErrors() {
			return errors.New("invalid keybindings")
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version, optionally checking for a newer release",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "orgsocial %s\n", appVersion)
		if !flagCheck {
			return nil
		}

		update, err := version.NewChecker("").Check(cmd.Context(), appVersion)
		if err != nil {
			return err
		}
		if update.Available {
			fmt.Fprintf(w, "A newer version is available: %s (%s)\n", update.Latest, update.URL)
		} else {
			fmt.Fprintln(w, "You are running the latest version")
		}
		return nil
	},
}

// Persistent flags
var (
	flagFile    string
	flagDebug   bool
	flagLogFile string
	flagColor   string
)

// Timeline flags shared by tui and feed
var (
	flagUserOnly bool
	flagSource   string
	flagDays     int
)

// Command flags
var (
	flagCount   int
	flagSearch  string
	flagTags    []string
	flagOutput  string
	flagFilter  string
	flagQuery   string
	flagPick    bool
	flagVerbose bool
	flagLimit   int
	flagForce   bool
	flagCheck   bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagFile, "file", "f", "", "Social file to use (overrides config and ORG_SOCIAL_FILE)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Write debug logs")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Debug log path")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto", "Color output (auto/always/never)")

	for _, cmd := range []*cobra.Command{tuiCmd, feedCmd} {
		cmd.Flags().BoolVar(&flagUserOnly, "user-only", false, "Only show your own posts")
		cmd.Flags().StringVar(&flagSource, "source", "", "Only show posts whose feed URL contains this text")
		cmd.Flags().IntVar(&flagDays, "days", 0, "Only show posts from the last N days")
	}

	feedCmd.Flags().IntVarP(&flagCount, "count", "n", 0, "Number of posts (default from config)")
	feedCmd.Flags().StringVarP(&flagSearch, "search", "s", "", "Fuzzy search posts")
	feedCmd.Flags().StringSliceVarP(&flagTags, "tag", "t", nil, "Only show posts with any of these tags")
	feedCmd.Flags().StringVarP(&flagOutput, "output", "o", cli.OutputText, "Output format (text/json)")
	feedCmd.Flags().StringVar(&flagFilter, "filter", "", "JMESPath filter over the JSON listing")
	feedCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "JMESPath query or $(command)")
	feedCmd.Flags().BoolVar(&flagPick, "pick", false, "Choose a followed feed interactively")

	statsCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Show tags and per-feed counts")
	historyCmd.Flags().IntVarP(&flagLimit, "limit", "l", 20, "Number of entries")
	keybindsExportCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing file")
	versionCmd.Flags().BoolVar(&flagCheck, "check", false, "Check for a newer release")

	keybindsCmd.AddCommand(keybindsExportCmd)
	keybindsCmd.AddCommand(keybindsValidateCmd)

	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(followingCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(keybindsCmd)
	rootCmd.AddCommand(versionCmd)
}

// state is built once per invocation by setup
var state struct {
	cfg       *config.Config
	env       cli.Env
	fetcher   *orgsocial.Fetcher
	logCloser io.Closer
}

// setup loads the configuration and installs the logger
func setup(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}
	if err := config.CreateDefaultIfMissing(config.ConfigFile); err != nil {
		return fmt.Errorf("failed to create default config: %w", err)
	}

	cfg, err := config.Load(config.ConfigFile)
	if err != nil {
		return err
	}
	if flagFile != "" {
		cfg.SocialFile = flagFile
	}

	logPath := config.LogPath
	if flagLogFile != "" {
		logPath = flagLogFile
	}
	logger, closer, err := logging.Setup(logging.Options{Debug: flagDebug, Path: logPath})
	if err != nil {
		return err
	}
	state.logCloser = closer

	if err := cli.SetColorMode(flagColor); err != nil {
		return err
	}

	socialPath, err := cfg.SocialPath()
	if err != nil {
		return err
	}

	opts := []orgsocial.FetcherOption{orgsocial.WithTimeout(cfg.FetchTimeout)}
	if cfg.UserAgent != "" {
		opts = append(opts, orgsocial.WithUserAgent(cfg.UserAgent))
	}

	state.cfg = cfg
	state.fetcher = orgsocial.NewFetcher(opts...)
	state.env = cli.Env{
		SocialPath: socialPath,
		FeedURL:    cfg.FeedURL,
		Fetcher:    state.fetcher,
		Out:        cmd.OutOrStdout(),
	}

	logger.Debug("Starting", "version", appVersion, "command", cmd.Name(), "social_file", socialPath)
	return nil
}

func teardown(cmd *cobra.Command, args []string) {
	if state.logCloser != nil {
		state.logCloser.Close()
	}
}

// runTUI starts the interactive TUI
func runTUI(timeline orgsocial.TimelineOptions) error {
	registry, err := keybinds.LoadOrDefault(config.KeybindsPath)
	if err != nil {
		return err
	}

	mgr, err := history.NewManager(config.DatabasePath)
	if err != nil {
		return err
	}

	return tui.Run(tui.Options{
		Config:     state.cfg,
		SocialPath: state.env.SocialPath,
		Keybinds:   registry,
		History:    mgr,
		Fetcher:    state.fetcher,
		Timeline:   timeline,
		Watch:      state.cfg.Watch,
	})
}
