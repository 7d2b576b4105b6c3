package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"financial-assistant-be/internal/config"
	"financial-assistant-be/internal/pkg/logger"
	"financial-assistant-be/pkg/workspace"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

// Sweeps abandoned session caches (cache_<session_id> directories) whose
// contents have not been touched within the max age. Run from cron on the
// scratch host.
func main() {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Printf("Warning: Could not load .env: %v", err)
	}
	cfg := config.Load()

	dir := flag.String("dir", cfg.Workspace.ScratchDir, "parent directory of the session caches")
	maxAge := flag.Duration("max-age", 24*time.Hour, "delete caches older than this")
	dryRun := flag.Bool("dry-run", false, "report what would be deleted without deleting")
	exclude := flag.String("exclude", "", "comma separated cache directory names to keep")
	flag.Parse()

	excluded := map[string]bool{}
	for _, name := range strings.Split(*exclude, ",") {
		if name = strings.TrimSpace(name); name != "" {
			excluded[name] = true
		}
	}

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatalf("Cannot read %s: %v", *dir, err)
	}

	ops := workspace.NewOps(logger.NewZapLogger("logs/sweeper.log", false))
	color.Cyan("🧹 Sweeping %s (max age %s)", *dir, *maxAge)

	swept, kept := 0, 0
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "cache_") {
			continue
		}
		if excluded[entry.Name()] {
			color.Yellow("Keeping %s (excluded)", entry.Name())
			kept++
			continue
		}

		info, err := entry.Info()
		if err != nil {
			color.Red("Cannot stat %s: %v", entry.Name(), err)
			continue
		}
		age := time.Since(info.ModTime())
		if age < *maxAge {
			kept++
			continue
		}

		path := filepath.Join(*dir, entry.Name())
		if *dryRun {
			color.Yellow("Would delete %s (age %s)", path, age.Round(time.Minute))
			continue
		}
		ops.DeleteTempDir(path, true)
		color.Green("Deleted %s (age %s)", path, age.Round(time.Minute))
		swept++
	}

	color.Cyan("Done: swept %d, kept %d", swept, kept)
}
