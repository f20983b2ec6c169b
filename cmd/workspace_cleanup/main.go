package main

import (
	"log"
	"time"

	"geoimport/internal/config"
	"geoimport/internal/modules/bulkimport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	removed, err := bulkimport.SweepStale(cfg.UploadRoot, cfg.StaleWorkspaceTTL, time.Now())
	if err != nil {
		log.Fatalf("workspace cleanup failed: removed=%d error=%v", removed, err)
	}

	log.Printf("workspace cleanup completed: root=%s max_age=%s removed=%d", cfg.UploadRoot, cfg.StaleWorkspaceTTL, removed)
}
