package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"stockfront/internal/backend"
	"stockfront/internal/config"
	"stockfront/internal/ingest"
	"stockfront/internal/localstore"
)

func main() {
	var (
		dir   string
		token string
	)
	flag.StringVar(&dir, "dir", "", "Directory of images to ingest")
	flag.StringVar(&token, "token", "", "Admin bearer token (defaults to ADMIN_TOKEN, then the cached session token)")
	flag.Parse()

	if dir == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger := log.New(os.Stderr, "[ingest] ", log.LstdFlags)

	if token == "" {
		token = os.Getenv("ADMIN_TOKEN")
	}
	if token == "" {
		token = cachedToken(cfg.StateDir, logger)
	}
	if token == "" {
		log.Fatal("no admin token: pass -token, set ADMIN_TOKEN, or sign in through the storefront first")
	}

	client, err := backend.NewClient(cfg.BackendURL, &http.Client{Timeout: 10 * time.Minute}, logger)
	if err != nil {
		log.Fatalf("init backend client: %v", err)
	}

	uploader := ingest.NewUploader(backend.NewAdminClient(client), logger)

	start := time.Now()
	report, err := uploader.Run(context.Background(), token, dir, func(ev ingest.Event) {
		fmt.Fprintf(os.Stderr, "\rbatch %s: %d/%d bytes", ev.BatchID, ev.SentBytes, ev.TotalBytes)
	})
	fmt.Fprintln(os.Stderr)
	if err != nil {
		log.Fatalf("ingest failed: %v", err)
	}

	fmt.Printf("Uploaded batch %s: %d files, %d bytes in %s\n",
		report.BatchID, report.Files, report.TotalBytes, time.Since(start).Truncate(time.Millisecond))
}

func cachedToken(stateDir string, logger *log.Logger) string {
	snapshots, err := localstore.New(stateDir, logger)
	if err != nil {
		return ""
	}
	var token string
	snapshots.Get(localstore.KeyToken, &token)
	return token
}
