package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/client/client"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/client/config"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/client/repositories/journal"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/draft"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/filex"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/listing"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/logging"

	_ "modernc.org/sqlite"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const journalDir = ".taxivision"

type App struct {
	config  *config.Config
	client  client.Client
	session *draft.Session
	db      *sql.DB
	schema  listing.Schema
	logger  logging.Logger
	reader  *bufio.Reader

	mu   sync.Mutex
	Mode Mode
}

// journalPath resolves the SQLite file backing the edit journal.
func journalPath(c *config.Config) (string, error) {
	if c.JournalPath != "" {
		if err := filex.EnsureParentDir(c.JournalPath); err != nil {
			return "", err
		}
		return c.JournalPath, nil
	}
	dir, err := filex.EnsureSubdDir(journalDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "journal.db"), nil
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if c.EntityID == "" {
		return nil, fmt.Errorf("entity id is required")
	}

	if c.AccessToken == "" {
		token, err := GetToken(os.Stdout)
		if err != nil {
			return nil, fmt.Errorf("read access token: %w", err)
		}
		c.AccessToken = token
	}

	path, err := journalPath(c)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, path)
	if err != nil {
		logger.Error(ctx, "error initializing journal database", "path", path, "error", err)
		return nil, err
	}

	apiClient, err := client.NewDraftClient(c.ServerEndpointAddr, c.AccessToken)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	repo := journal.NewSQLiteRepository(db)
	reportOtherJournals(ctx, repo, c.EntityID, logger)

	session, err := draft.Open(ctx, apiClient, c.EntityID,
		draft.WithQuietPeriod(c.QuietPeriod),
		draft.WithRequestTimeout(c.RequestTimeout),
		draft.WithJournal(journal.ForEntity(repo, c.EntityID)),
		draft.WithLogger(logger.With("entity_id", c.EntityID)),
	)
	if err != nil {
		_ = apiClient.Close()
		_ = db.Close()
		return nil, err
	}

	return newApp(c, apiClient, session, db, logger), nil
}

// reportOtherJournals tells the user about unsaved edits of listings other
// than the one being opened; they are restored when that listing is opened.
func reportOtherJournals(ctx context.Context, repo journal.Repository, entityID string, logger logging.Logger) {
	ids, err := repo.Entities(ctx)
	if err != nil {
		logger.Warn(ctx, "cannot list journaled listings", "error", err)
		return
	}
	var others []string
	for _, id := range ids {
		if id != entityID {
			others = append(others, id)
		}
	}
	if len(others) > 0 {
		printlnFn("Unsaved edits also exist for:", strings.Join(others, ", "))
	}
}

func newApp(c *config.Config, cl client.Client, s *draft.Session, db *sql.DB, logger logging.Logger) *App {
	return &App{
		config:  c,
		client:  cl,
		session: s,
		db:      db,
		schema:  listing.PartnerSchema,
		logger:  logger,
		reader:  bufio.NewReader(os.Stdin),
		Mode:    ModeOnline,
	}
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Mode
}

// Run blocks in the REPL until the user exits, then flushes pending edits
// and releases the connection and the journal.
func (a *App) Run(ctx context.Context) error {
	a.Root(ctx)
	return a.Shutdown(ctx)
}

// Shutdown performs the final save and closes every resource, reporting
// the first failure.
func (a *App) Shutdown(ctx context.Context) error {
	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.config.RequestTimeout+time.Second)
	defer cancel()

	if a.session.Status().IsSaving() {
		printlnFn("Waiting for the save in progress...")
	}

	var first error
	if err := a.session.Close(closeCtx); err != nil {
		a.logger.Warn(ctx, "unsaved edits remain in the journal", "error", err)
		first = err
	}
	if err := a.client.Close(); err != nil && first == nil {
		first = err
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.client.Ping(pingCtx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}

// watchStatus reports background save failures as they happen; the REPL
// itself only sees the results of commands the user typed.
func (a *App) watchStatus(ctx context.Context) {
	ch, cancel := a.session.Subscribe()
	defer cancel()

	last := ""
	for {
		select {
		case st, ok := <-ch:
			if !ok {
				return
			}
			msg := ""
			if st.LastError != nil {
				msg = st.LastError.Error()
			}
			if msg != "" && msg != last {
				printlnFn("save failed:", msg)
			}
			last = msg
		case <-ctx.Done():
			return
		}
	}
}
