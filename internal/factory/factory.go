package factory

import (
	"io"
	"log/slog"

	"github.com/mkelsey/devportal/internal/dependencies/clock"
	"github.com/mkelsey/devportal/internal/session"
	"github.com/mkelsey/devportal/internal/session/credential"
	"github.com/mkelsey/devportal/internal/session/gateway"
	"github.com/mkelsey/devportal/internal/session/token"
)

// Config holds configuration for the client-side application factory
type Config struct {
	// ServerURL is the identity service root; empty means local-only
	ServerURL string

	// ForceLocal serves every identity operation from the local
	// substitute even when a server URL is configured
	ForceLocal bool

	// TokenFile is the credential store path; empty uses the default
	TokenFile string

	// Logger is the application logger (optional)
	Logger *slog.Logger
}

// App contains the wired session subsystem
type App struct {
	Clock       clock.Clock
	Codec       *token.Codec
	Credentials credential.Store
	Gateway     gateway.Gateway
	Session     *session.Controller
}

// New creates the session subsystem with all dependencies wired
func New(cfg Config) *App {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	tokenFile := cfg.TokenFile
	if tokenFile == "" {
		tokenFile = credential.DefaultPath()
	}

	clk := clock.New()
	codec := token.NewCodec(clk)
	creds := credential.NewFileStore(tokenFile, logger)

	local := gateway.NewLocal(clk, codec)
	gw := gateway.NewResilient(gateway.Config{
		BaseURL:    cfg.ServerURL,
		ForceLocal: cfg.ForceLocal,
	}, local, logger)

	return &App{
		Clock:       clk,
		Codec:       codec,
		Credentials: creds,
		Gateway:     gw,
		Session:     session.NewController(gw, creds, codec, logger),
	}
}
