package commands

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"godelterm/lib/configutil"
	"godelterm/lib/notify"
	"godelterm/lib/restyutil"
	"godelterm/lib/scrapers/godel/core"
	"godelterm/lib/serviceutil"
	"godelterm/lib/sqliteutil"
	"godelterm/lib/timezone"
	"godelterm/services/archive"
	"godelterm/services/archive/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "godel-cli",
	Short: "godel-cli drives the Godel Terminal web app and scrapes its windows.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type Config struct {
	Session core.Config `json:"session"`
	// sqlite file backing chat and pdf history
	ArchiveDb string `json:"archive_db"`
	// scrape artifacts (pdfs, traffic dumps) land here
	OutputDir string        `json:"output_dir"`
	Notify    notify.Config `json:"notify"`
	// when set, every http exchange is dumped here for debugging
	DebugHttpDir string `json:"debug_http_dir"`
}

func loadConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if cfg.ArchiveDb == "" {
		cfg.ArchiveDb = "godel.db"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "output"
	}
	if cfg.Session.Browser.DownloadDir == "" {
		cfg.Session.Browser.DownloadDir = cfg.OutputDir + "/downloads"
	}
	return cfg
}

// newSession starts the browser and logs into the terminal.
func newSession(ctx context.Context, cfg Config) *core.Session {
	if cfg.DebugHttpDir != "" {
		core.SetRestyInstrumentOutput(restyutil.NewFilesystemOutput(cfg.DebugHttpDir))
	}
	session, err := core.NewSession(ctx, cfg.Session)
	if err != nil {
		serviceutil.Fatal("failed to start browser session", err)
	}
	err = session.Login(ctx)
	if err != nil {
		session.Close()
		serviceutil.Fatal("failed to login", err)
	}
	return session
}

func openArchive(cfg Config) (archive.Service, *sql.DB) {
	database, err := sqliteutil.OpenDB(db.Schema, cfg.ArchiveDb)
	if err != nil {
		serviceutil.Fatal("failed to open archive db", err)
	}
	return archive.NewService(database), database
}

// saveResult writes a scrape result to a timestamped json file under
// dir and returns the file path.
func saveResult(dir, name string, result any) (string, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return "", err
	}
	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.json", name, timezone.Now().Format("20060102_150405")))
	err = os.WriteFile(path, encoded, 0644)
	if err != nil {
		return "", err
	}
	return path, nil
}

func dumpResult(cfg Config, name string, result any) {
	path, err := saveResult(cfg.OutputDir, name, result)
	if err != nil {
		serviceutil.Fatal("failed to save result", err)
	}
	slog.Info("result saved", "path", path)
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}
