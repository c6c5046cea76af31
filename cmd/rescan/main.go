package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"menuchat/internal/config"
	"menuchat/internal/importer"
	"menuchat/internal/logger"
)

// rescan triggers POST /admin/rescan on the API every RESCAN_INTERVAL.
// Run with -once to trigger a single rescan and exit.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := &http.Client{Timeout: 30 * time.Minute}
	endpoint := strings.TrimRight(cfg.APIURL, "/") + "/admin/rescan"

	trigger := func() {
		results, err := triggerRescan(ctx, client, endpoint)
		if err != nil {
			zlog.Warn("rescan failed", zap.String("endpoint", endpoint), zap.Error(err))
			return
		}

		updated := 0
		for _, r := range results {
			if r.Updated {
				updated++
			}
		}
		zlog.Info("rescan complete", zap.Int("restaurants", len(results)), zap.Int("updated", updated))
	}

	zlog.Info("rescan scheduler started", zap.String("endpoint", endpoint), zap.Duration("interval", cfg.RescanInterval))
	trigger()
	if len(os.Args) > 1 && os.Args[1] == "-once" {
		return
	}

	ticker := time.NewTicker(cfg.RescanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zlog.Info("rescan scheduler stopped")
			return
		case <-ticker.C:
			trigger()
		}
	}
}

func triggerRescan(ctx context.Context, client *http.Client, endpoint string) ([]importer.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return nil, eris.Wrap(err, "build request")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "call api")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("api returned status %d", resp.StatusCode)
	}

	var body struct {
		Results []importer.Result `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, eris.Wrap(err, "decode response")
	}
	return body.Results, nil
}
