package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/lexqa/internal/client/client"
	"github.com/dmitrijs2005/lexqa/internal/client/config"
	"github.com/dmitrijs2005/lexqa/internal/client/repositories/documents"
	"github.com/dmitrijs2005/lexqa/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/lexqa/internal/client/services"
	"github.com/dmitrijs2005/lexqa/internal/logging"
)

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

// pingTimeout bounds a single health probe of the watcher.
const pingTimeout = 3 * time.Second

type App struct {
	config  *config.Config
	session *services.Session
	log     logging.Logger
	db      *sql.DB

	reader *bufio.Reader
	out    io.Writer

	modeMu sync.RWMutex
	mode   Mode
}

// NewApp opens the state database, builds the HTTP client and the session.
// A state database that cannot be opened is not fatal: the identity and the
// document snapshot then last for this run only.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	log = logging.OrDiscard(log)

	var (
		meta      metadata.Repository
		snapshots documents.Repository
	)
	db, err := client.InitDatabase(ctx, c.StatePath)
	if err != nil {
		log.Warn(ctx, "local state unavailable, identity will not persist", "path", c.StatePath, "err", err)
	} else {
		repos := client.NewRepositories(db)
		meta, snapshots = repos.Metadata, repos.Documents
	}

	apiClient, err := client.New(c.ServerURL,
		client.WithLogger(logging.Component(log, "http")),
		client.WithListRetries(c.RefreshRetries),
		client.WithDebugLogging(c.Debug),
	)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, err
	}

	session := services.NewSession(apiClient, meta, snapshots, log, services.Options{
		Extension:      c.AcceptedExtension,
		MaxUploadBytes: c.MaxUploadBytes(),
		TopK:           c.TopK,
		Threshold:      c.Threshold,
	})

	return &App{
		config:  c,
		session: session,
		log:     log,
		db:      db,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

// Close releases the state database.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) Mode() Mode {
	a.modeMu.RLock()
	defer a.modeMu.RUnlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		a.log.Info(context.Background(), "switched mode", "mode", string(mode))
	}
}

// Run starts the session, the connectivity watcher and the REPL. It blocks
// until the user exits or stdin is closed.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fprintln(a.out, "Welcome to lexqa (type 'help' for commands)")

	if err := a.session.Start(ctx); err != nil {
		a.printErr(err)
	}
	if err := a.session.Identity.Degraded(); err != nil {
		fprintln(a.out, "Warning: your identity could not be saved; documents will not be visible after restart.")
	}
	_ = a.List(ctx)

	if a.config.MetricsAddr != "" {
		a.startMetricsServer(ctx, a.config.MetricsAddr)
	}

	if a.config.OnlineCheckInterval > 0 {
		go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	} else {
		a.setMode(ModeDisabled)
	}

	promptFn := func() string { return "" }
	if isTerminal(int(os.Stdin.Fd())) {
		promptFn = func() string { return "lexqa " + a.getStatus() + "> " }
	}

	runREPL(ctx, a, promptFn, bufio.NewScanner(a.reader))
}

// StartOnlineStatusWatcher probes the service every interval and switches
// between online and offline mode. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.probe(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) probe(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.session.Ping(pctx)
	cancel()

	if ctx.Err() != nil {
		return
	}
	if err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}
