package main

import (
	"context"
	"net/http"

	"piiquante/internal/modkit/repokit"
	"piiquante/internal/platform/blob"
	"piiquante/internal/platform/config"
	"piiquante/internal/platform/logger"
	phttp "piiquante/internal/platform/net/http"
	"piiquante/internal/platform/store"

	"piiquante/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_") // pgCfg lives under SERVICE_PGSQL_*
	blobCfg := root.Prefix("SERVICE_BLOB_")

	// bring up logging early
	l := logger.Get()

	// open the platform store (postgres)
	st, err := store.Open(
		context.Background(),
		store.Config{
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", true),
			},
		},
		store.WithLogger(*logger.Get()),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// refuse to serve until every configured backend answers
	repokit.MustGuard(context.Background(), st)

	// image asset store on local disk
	imagesDir := blobCfg.MayString("DIR", "images")
	assets, err := blob.Open(blob.Config{Dir: imagesDir}, *l)
	if err != nil {
		l.Panic().Err(err).Msg("blob.Open failed")
	}

	// http server (reads CORE_API_API_PORT)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	api.Mount(
		srv.Router(),
		api.Options{
			Config: apiCfg,
			Store:  st,
			Blob:   assets,
			Logger: l,
		},
	)

	// serve uploaded images as static files
	srv.Router().Handle("/images/*", http.StripPrefix("/images/", http.FileServer(http.Dir(imagesDir))))

	// run
	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
