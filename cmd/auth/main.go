// Package main provides the Spotify authentication tool.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"github.com/osa030/spotlist/internal/infra/logger"
	"github.com/osa030/spotlist/internal/infra/spotify"
)

var (
	app          = kingpin.New("spotlist-auth", "Obtain a Spotify refresh token for spotlist")
	clientID     = app.Flag("client-id", "Spotify Client ID").Envar("SPOTIFY_CLIENT_ID").Required().String()
	clientSecret = app.Flag("client-secret", "Spotify Client Secret").Envar("SPOTIFY_CLIENT_SECRET").Required().String()
	port         = app.Flag("port", "Callback server port").Default("8888").Int()
	timeout      = app.Flag("timeout", "How long to wait for authorization").Default("5m").Duration()
)

// callback handles the OAuth redirect and forwards the token, or the failure, once.
type callback struct {
	auth   *spotifyauth.Authenticator
	state  string
	tokens chan *oauth2.Token
	errs   chan error
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	if _, err := logger.Init(logger.Config{Level: "info"}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	token, err := authorize(context.Background())
	if err != nil {
		zlog.Error().Msgf("authorization failed: error=%v", err)
		os.Exit(1)
	}

	printToken(token)
}

func authorize(ctx context.Context) (*oauth2.Token, error) {
	redirectURI := fmt.Sprintf("http://127.0.0.1:%d/callback", *port)

	cb := &callback{
		auth: spotifyauth.New(
			spotifyauth.WithRedirectURL(redirectURI),
			spotifyauth.WithClientID(*clientID),
			spotifyauth.WithClientSecret(*clientSecret),
			spotifyauth.WithScopes(spotify.Scopes...),
		),
		state:  uuid.NewString(),
		tokens: make(chan *oauth2.Token, 1),
		errs:   make(chan error, 1),
	}

	mux := http.NewServeMux()
	mux.Handle("/callback", cb)
	server := &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", *port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cb.fail(errors.Wrap(err, "failed to start callback server"))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zlog.Warn().Msgf("failed to shutdown callback server: error=%v", err)
		}
	}()

	fmt.Println("Please visit the following URL to authorize spotlist:")
	fmt.Println("")
	fmt.Println(cb.auth.AuthURL(cb.state))
	fmt.Println("")
	zlog.Info().Msgf("waiting for authorization: redirect=%s timeout=%s", redirectURI, *timeout)

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	select {
	case token := <-cb.tokens:
		return token, nil
	case err := <-cb.errs:
		return nil, err
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "timed out waiting for authorization")
	}
}

func (c *callback) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if st := r.FormValue("state"); st != c.state {
		http.Error(w, "State mismatch", http.StatusForbidden)
		zlog.Warn().Msgf("state mismatch: got=%s", st)
		return
	}

	token, err := c.auth.Token(r.Context(), c.state, r)
	if err != nil {
		http.Error(w, "Failed to get token", http.StatusForbidden)
		c.fail(errors.Wrap(err, "failed to exchange authorization code"))
		return
	}

	fmt.Fprint(w, completePage)

	select {
	case c.tokens <- token:
	default:
	}
}

func (c *callback) fail(err error) {
	select {
	case c.errs <- err:
	default:
	}
}

func printToken(token *oauth2.Token) {
	fmt.Println("")
	fmt.Println("=== Authorization Successful ===")
	fmt.Println("")
	fmt.Println("Refresh Token:")
	fmt.Println(token.RefreshToken)
	fmt.Println("")
	fmt.Println("Add this to your config.yaml:")
	fmt.Println("")
	fmt.Println("spotify:")
	fmt.Printf("  client_id: \"%s\"\n", *clientID)
	fmt.Println("  client_secret: \"...\"")
	fmt.Printf("  refresh_token: \"%s\"\n", token.RefreshToken)
	fmt.Println("")
	fmt.Println("Or set as environment variable:")
	fmt.Printf("export SPOTIFY_REFRESH_TOKEN=\"%s\"\n", token.RefreshToken)
}

const completePage = `<!DOCTYPE html>
<html>
<head>
    <title>spotlist - Authorization Complete</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            display: flex;
            justify-content: center;
            align-items: center;
            height: 100vh;
            margin: 0;
            background: #191414;
            color: white;
        }
        h1 { color: #1DB954; }
    </style>
</head>
<body>
    <div>
        <h1>Authorization Complete</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`
