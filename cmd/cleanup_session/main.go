package main

import (
	"flag"
	"log"

	"financial-assistant-be/internal/config"
	"financial-assistant-be/internal/pkg/logger"
	"financial-assistant-be/pkg/workspace"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

// Clears one session's cache tree by hand when the API is unreachable.
func main() {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Printf("Warning: Could not load .env: %v", err)
	}
	cfg := config.Load()

	session := flag.String("session", "", "session id whose production cache should be cleared")
	root := flag.String("root", "", "explicit cache directory (overrides -session)")
	deleteRoot := flag.Bool("delete-root", false, "delete the cache directory itself")
	flag.Parse()

	target := *root
	if target == "" {
		if *session == "" {
			log.Fatalf("either -root or -session is required")
		}
		target = workspace.ProdRoot(cfg.Workspace.ScratchDir, *session)
	}

	ops := workspace.NewOps(logger.NewZapLogger("logs/cleanup.log", false))
	ops.ClearCache(target, *deleteRoot, true)

	if *deleteRoot {
		color.Green("Cache deleted: %s", target)
	} else {
		color.Green("Cache cleared (root kept): %s", target)
	}
}
