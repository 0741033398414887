// Package main provides the spotlist entry point.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/spotlist/internal/app/builder"
	"github.com/osa030/spotlist/internal/app/suggest"
	"github.com/osa030/spotlist/internal/domain/playlist"
	"github.com/osa030/spotlist/internal/domain/selection"
	"github.com/osa030/spotlist/internal/infra/config"
	"github.com/osa030/spotlist/internal/infra/logger"
	"github.com/osa030/spotlist/internal/infra/spotify"
	"github.com/osa030/spotlist/internal/ui"
)

var (
	app        = kingpin.New("spotlist", "Build Spotify playlists from the top tracks of chosen artists")
	configPath = app.Flag("config", "Path to config file").Default(config.DefaultPath()).String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stderr, the tui logs to the state dir)").String()

	tuiCmd = app.Command("tui", "Interactive playlist builder (default)").Default()

	// build command
	buildCmd     = app.Command("build", "Build a playlist without the interactive screen")
	buildName    = buildCmd.Flag("name", "Playlist name").Short('n').String()
	buildArtists = buildCmd.Flag("artist", `Artist to include as "Artist" or "Artist:N" (repeatable)`).Short('a').Strings()
	buildPlan    = buildCmd.Flag("plan", "YAML build plan").ExistingFile()
	buildPrivate = buildCmd.Flag("private", "Create a private playlist").Bool()

	// suggest command
	suggestCmd    = app.Command("suggest", "List artists similar to an artist")
	suggestArtist = suggestCmd.Arg("artist", "Seed artist").Required().String()
	suggestLimit  = suggestCmd.Flag("limit", "Maximum number of suggestions").Int()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	// Parse command
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config %s: %v\n", *configPath, err)
		os.Exit(1)
	}

	closer, err := initLogger(cfg, command == tuiCmd.FullCommand())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, command, cfg); err != nil {
		zlog.Error().Msgf("command failed: command=%s error=%v", command, err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		closer.Close()
		os.Exit(1)
	}
}

// initLogger sets up logging. Flags win over config; the interactive screen
// always logs to a file so log lines never reach the terminal.
func initLogger(cfg *config.Config, interactive bool) (io.Closer, error) {
	loggerConfig := logger.Config{
		Level: cfg.Log.Level,
		File:  cfg.Log.File,
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.File = *logfile
	}
	if interactive && loggerConfig.File == "" {
		path, err := config.DefaultLogFile()
		if err != nil {
			return nil, err
		}
		loggerConfig.File = path
	}
	return logger.Init(loggerConfig)
}

// run executes the selected command. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(ctx context.Context, command string, cfg *config.Config) error {
	spotifyClient, err := spotify.New(ctx, spotify.Config{
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
		RefreshToken: cfg.Spotify.RefreshToken,
		Market:       cfg.Spotify.Market,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create Spotify client")
	}

	switch command {
	case tuiCmd.FullCommand():
		return runTUI(ctx, cfg, spotifyClient)
	case buildCmd.FullCommand():
		return runBuild(ctx, cfg, spotifyClient)
	case suggestCmd.FullCommand():
		return runSuggest(ctx, cfg, spotifyClient)
	}
	return errors.Newf("unknown command: %s", command)
}

func newBuilder(cfg *config.Config, client *spotify.Client, visibility playlist.Visibility) (*builder.Builder, error) {
	return builder.New(client, builder.Options{
		Description: cfg.Playlist.Description,
		Visibility:  visibility,
	})
}

func runTUI(ctx context.Context, cfg *config.Config, client *spotify.Client) error {
	b, err := newBuilder(cfg, client, playlist.Visibility(cfg.Playlist.Visibility))
	if err != nil {
		return err
	}

	var suggester ui.Suggester
	chain, err := suggest.NewProviderChainFromConfig(cfg, client)
	if err != nil {
		zlog.Warn().Msgf("suggestions disabled: error=%v", err)
	} else {
		zlog.Info().Msgf("suggestions enabled: providers=%d", chain.Len())
		suggester = chain
	}

	model := ui.NewModel(ctx, b, suggester, ui.Options{
		DefaultTrackCount: cfg.Playlist.DefaultTrackCount,
		SuggestLimit:      cfg.Suggest.Limit,
	})

	zlog.Info().Msg("starting interactive session")
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return errors.Wrap(err, "interactive session failed")
	}
	return nil
}

func runBuild(ctx context.Context, cfg *config.Config, client *spotify.Client) error {
	visibility := playlist.Visibility(cfg.Playlist.Visibility)
	if *buildPrivate {
		visibility = playlist.VisibilityPrivate
	}
	b, err := newBuilder(cfg, client, visibility)
	if err != nil {
		return err
	}

	name := *buildName
	var selections []selection.ArtistRequest

	if *buildPlan != "" {
		plan, err := config.LoadPlan(*buildPlan, cfg.Playlist.DefaultTrackCount)
		if err != nil {
			return err
		}
		if name == "" {
			name = plan.Name
		}
		for _, a := range plan.Artists {
			req, err := selection.NewArtistRequest(a.Name, a.Count)
			if err != nil {
				return errors.Wrapf(err, "invalid plan entry %q", a.Name)
			}
			selections = append(selections, req)
		}
	}

	for _, s := range *buildArtists {
		req, err := selection.ParseArtistRequest(s, cfg.Playlist.DefaultTrackCount)
		if err != nil {
			return errors.Wrapf(err, "invalid --artist %q", s)
		}
		selections = append(selections, req)
	}

	result, err := b.Build(ctx, name, selections)
	if err != nil {
		return err
	}

	printResult(os.Stdout, result)
	return nil
}

func printResult(w io.Writer, result *builder.Result) {
	pl := result.Playlist
	fmt.Fprintf(w, "Playlist %q created successfully!\n", pl.Name)
	fmt.Fprintf(w, "%s\n", pl.URL)
	fmt.Fprintf(w, "Tracks: %d\n", len(pl.Tracks))
	fmt.Fprintln(w)
	for _, a := range result.Artists {
		if !a.Resolved() {
			fmt.Fprintf(w, "  ✗ %s: not found, skipped\n", a.Request)
			continue
		}
		fmt.Fprintf(w, "  ✓ %s: %d tracks from %s\n", a.Request, len(a.Tracks), a.Artist.Name)
	}
}

func runSuggest(ctx context.Context, cfg *config.Config, client *spotify.Client) error {
	chain, err := suggest.NewProviderChainFromConfig(cfg, client)
	if err != nil {
		return err
	}

	limit := cfg.Suggest.Limit
	if *suggestLimit > 0 {
		limit = *suggestLimit
	}
	zlog.Debug().Msgf("suggesting: seed=%q limit=%d providers=%d", *suggestArtist, limit, chain.Len())

	suggestions, err := chain.Suggest(ctx, *suggestArtist, limit, nil)
	if err != nil {
		return err
	}

	if len(suggestions) == 0 {
		fmt.Printf("No similar artists found for %s\n", *suggestArtist)
		return nil
	}

	fmt.Printf("Artists similar to %s:\n", *suggestArtist)
	for i, s := range suggestions {
		fmt.Printf("%2d. %-30s %.2f  (%s)\n", i+1, s.Name, s.Score, s.Source)
	}
	return nil
}
