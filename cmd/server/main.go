package main

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/LogiStic1207/lol-draft-assistant/internal/catalog"
	"github.com/LogiStic1207/lol-draft-assistant/internal/config"
	"github.com/LogiStic1207/lol-draft-assistant/internal/httpapi"
	"github.com/LogiStic1207/lol-draft-assistant/internal/hub"
	"github.com/LogiStic1207/lol-draft-assistant/internal/lobby"
	"github.com/LogiStic1207/lol-draft-assistant/internal/meta"
	"github.com/LogiStic1207/lol-draft-assistant/internal/scoring"
	"github.com/LogiStic1207/lol-draft-assistant/internal/store"
)

func main() {
	cfg := config.Load()

	var log *zap.Logger
	var err error
	if cfg.AppEnv == "dev" {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cat := catalog.Default()

	var st store.Store
	if cfg.DatabaseURL != "" {
		g, err := store.NewGorm(cfg.DatabaseURL, log)
		if err != nil {
			log.Fatal("store init failed", zap.Error(err))
		}
		st = g
	} else {
		log.Info("store running in-memory, records are not persisted")
		st = store.NewMemory()
	}

	analyzer := meta.NewAnalyzer(meta.NewClient(cfg.DDragonBaseURL, log), log)
	if cfg.MetaRefresh {
		go refreshMeta(log, analyzer, cat, cfg.PatchVersion)
	}

	scorer := scoring.New(cat, analyzer.PowerScore)

	ctx := context.Background()
	h := hub.NewHub(ctx, lobby.Deps{Catalog: cat, Store: st, Scorer: scorer, Log: log})

	handler := httpapi.NewServer(h, st, cat, analyzer, log).Routes()

	log.Info("listening", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

// refreshMeta runs the startup patch check: detect the latest version pair
// and diff champion stats into power scores. Failures leave the signal
// neutral, which scoring treats as no adjustment.
func refreshMeta(log *zap.Logger, analyzer *meta.Analyzer, cat *catalog.Catalog, pinned string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	info, err := analyzer.CheckUpdate(ctx, pinned, cat.IDs())
	if err != nil {
		log.Warn("version check failed", zap.Error(err))
		return
	}
	if info.Outdated && pinned != "" {
		log.Info("new patch detected",
			zap.String("current", info.Current), zap.String("latest", info.Latest))
	}
	if len(info.NewChampions) > 0 {
		log.Info("new champions upstream", zap.Strings("champions", info.NewChampions))
	}

	prev, err := analyzer.PreviousVersion(ctx)
	if err != nil || prev == "" {
		log.Warn("no previous patch to diff against", zap.Error(err))
		return
	}
	if _, err := analyzer.Refresh(ctx, prev, info.Latest, cat.IDs()); err != nil {
		log.Warn("patch diff failed", zap.Error(err))
		return
	}
	summary := analyzer.Summary()
	log.Info("meta scores ready",
		zap.Int("buffed", len(summary.Buffed)), zap.Int("nerfed", len(summary.Nerfed)))
}
