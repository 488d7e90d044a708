package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"book_music/internal/book"
	"book_music/internal/cache"
	"book_music/internal/config"
	"book_music/internal/freesound"
	"book_music/internal/ingest"
	"book_music/internal/pool"
	"book_music/internal/session"
	"book_music/internal/workspace"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	root     string
	settings config.Settings
	ready    bool
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{configFlag: configFlag, jsonFlag: jsonFlag}
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// setup prepares the workspace and settings once per invocation. A .env
// file in the working directory seeds the environment before BWM_*
// overrides are read.
func (c *commandContext) setup() error {
	if c.ready {
		return nil
	}
	_ = godotenv.Load()

	var err error
	if base := os.Getenv("BWM_WORKSPACE"); base != "" {
		c.root, err = workspace.EnsureAt(base)
	} else {
		c.root, err = workspace.EnsureDefault()
	}
	if err != nil {
		return fmt.Errorf("workspace initialization failed: %w", err)
	}

	path := ""
	if c.configFlag != nil {
		path = *c.configFlag
	}
	if path == "" {
		path = workspace.ConfigPath(c.root)
	}
	c.settings, err = config.Load(path)
	if err != nil {
		return err
	}
	c.ready = true
	return nil
}

// openBook parses a source file and registers it in the workspace.
func (c *commandContext) openBook(path string) (book.Book, *workspace.ProjectInfo, error) {
	parsed, err := ingest.ParseFile(path)
	if err != nil {
		return book.Book{}, nil, err
	}
	project, err := workspace.CreateProject(c.root, parsed.Title, parsed.SourcePath, parsed.SourceBytes)
	if err != nil {
		return book.Book{}, nil, err
	}
	b := parsed.Book()
	b.ID = project.ID
	return b, project, nil
}

// trackLoader builds the pool loader: Freesound when a key is
// configured, always backed by the workspace track cache.
func (c *commandContext) trackLoader() (*pool.Loader, error) {
	store, err := cache.NewStore(workspace.TrackCacheDir(c.root))
	if err != nil {
		return nil, fmt.Errorf("open track cache: %w", err)
	}

	var source pool.Source
	if key := c.settings.Freesound.APIKey; key != "" {
		client, err := freesound.New(key)
		if err != nil {
			return nil, err
		}
		source = client
	}

	ttl := time.Duration(c.settings.Freesound.CacheTTLHours) * time.Hour
	return pool.NewLoader(source, store, c.settings.Freesound.TracksPerMood, ttl, traceLog), nil
}

func (c *commandContext) newSession(dbPath string, loader *pool.Loader) *session.Session {
	return session.New(c.settings, dbPath, loader, traceLog)
}

// traceLog prints progress lines when BWM_TRACE=1.
func traceLog(level, stage, message, detail string) {
	if os.Getenv("BWM_TRACE") != "1" {
		return
	}
	fmt.Printf("%s [BWM] [%s] [%s] %s | %s\n", time.Now().Format("15:04:05.000"), level, stage, message, detail)
}
