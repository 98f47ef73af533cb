package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/moodkeeper/internal/client/ai"
	"github.com/dmitrijs2005/moodkeeper/internal/client/client"
	"github.com/dmitrijs2005/moodkeeper/internal/client/config"
	"github.com/dmitrijs2005/moodkeeper/internal/client/localstore"
	"github.com/dmitrijs2005/moodkeeper/internal/client/remote"
	"github.com/dmitrijs2005/moodkeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/moodkeeper/internal/client/services"
	"github.com/dmitrijs2005/moodkeeper/internal/client/synced"
	"github.com/dmitrijs2005/moodkeeper/internal/logging"
)

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

// pinger is a remote backend that can report reachability.
type pinger interface {
	Ping(ctx context.Context) error
}

// getPassword is an indirection used to facilitate testing.
var getPassword = GetPassword

type App struct {
	config *config.Config
	logger logging.Logger

	moods      services.MoodService
	journal    services.JournalService
	profile    services.ProfileService
	memory     services.MemoryService
	insights   services.InsightService
	compressor *services.Compressor

	pinger  pinger
	closers []io.Closer

	session string
	reader  *bufio.Reader
	out     io.Writer

	mu   sync.Mutex
	mode Mode
}

// NewApp opens the local database, connects the configured remote backend
// and wires the services. With Encrypt set the passphrase is read from the
// terminal before anything is loaded.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	local, err := openLocal(ctx, c, kv.NewSQLiteRepository(db))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	rs, closer, err := openRemote(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a := &App{
		config: c,
		logger: logger.With("module", "cli"),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		mode:   ModeDisabled,
	}
	if p, ok := rs.(pinger); ok {
		a.pinger = p
	}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}
	a.closers = append(a.closers, dbCloser{db})

	a.wire(local, rs, time.Now, logger)
	return a, nil
}

type dbCloser struct{ db *sql.DB }

func (d dbCloser) Close() error { return d.db.Close() }

func openLocal(ctx context.Context, c *config.Config, repo kv.Repository) (synced.LocalStore, error) {
	if !c.Encrypt {
		return localstore.New(repo), nil
	}
	pass, err := getPassword(os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("error reading passphrase: %w", err)
	}
	defer clear(pass)

	store, err := localstore.NewSealed(ctx, repo, pass)
	if err != nil {
		return nil, fmt.Errorf("error opening sealed store: %w", err)
	}
	return store, nil
}

func openRemote(ctx context.Context, c *config.Config) (remote.Store, io.Closer, error) {
	switch c.RemoteBackend {
	case config.RemoteGRPC:
		gc, err := client.NewGRPCClient(c.ServerEndpointAddr, c.AccessToken, c.RequestTimeout)
		if err != nil {
			return nil, nil, fmt.Errorf("error connecting to %s: %w", c.ServerEndpointAddr, err)
		}
		return gc, gc, nil
	case config.RemoteS3:
		api, err := remote.NewS3Client(ctx, remote.S3Options{
			Region:          c.S3.Region,
			Endpoint:        c.S3.Endpoint,
			AccessKeyID:     c.S3.AccessKeyID,
			SecretAccessKey: c.S3.SecretAccessKey,
			UsePathStyle:    c.S3.UsePathStyle,
		})
		if err != nil {
			return nil, nil, err
		}
		return remote.NewS3Store(api, c.S3.Bucket, c.S3.Prefix, c.AccessToken), nil, nil
	default:
		return remote.Offline{}, nil, nil
	}
}

// wire builds the services over the given stores. Model-backed helpers are
// only created when an API key is configured.
func (a *App) wire(local synced.LocalStore, rs remote.Store, clock func() time.Time, logger logging.Logger) {
	cols := services.NewCollections(local, rs, clock, logger)

	var (
		analyzer services.Analyzer
		names    services.NameExtractor
		writer   services.InsightWriter
	)
	if a.config.OpenAIKey != "" {
		responder := ai.NewOpenAIResponder(a.config.OpenAIKey, a.config.OpenAIModel)
		analyzer = ai.NewAnalyzer(responder, logger)
		names = ai.NewNameExtractor(responder, logger)
		writer = ai.NewInsightWriter(responder)
		a.compressor = services.NewCompressor(cols, ai.NewSummarizer(responder), clock, a.config.CompressionTimeout, logger)
	}

	a.moods = services.NewMoodService(cols, clock)
	a.profile = services.NewProfileService(cols, clock)
	a.memory = services.NewMemoryService(cols, rs, a.compressor, names, clock, logger)
	a.journal = services.NewJournalService(cols, a.memory, analyzer, a.compressor, clock, logger)
	a.insights = services.NewInsightService(cols, a.moods, local, writer, names, clock)
}

// Run prepares the remote memory documents, starts the connectivity watcher
// and blocks in the REPL until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.memory.EnsureMemoryScaffold(ctx)

	if a.pinger != nil {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)
	}

	fmt.Fprintln(a.out, "Welcome to moodkeeper (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close waits for background compression and releases connections.
func (a *App) Close() {
	if a.compressor != nil {
		a.compressor.Wait()
	}
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn(context.Background(), "close failed", "error", err)
		}
	}
	a.closers = nil
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(context.Background(), "connectivity changed", "mode", mode)
	}
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// StartOnlineStatusWatcher pings the backend every interval and flips the
// mode between online and offline.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.pinger.Ping(pingCtx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}
