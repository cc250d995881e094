// Package api provides the HTTP API for the application
package api

import (
	"piiquante/internal/platform/blob"
	"piiquante/internal/platform/config"
	"piiquante/internal/platform/logger"
	phttp "piiquante/internal/platform/net/http"
	"piiquante/internal/platform/store"

	"piiquante/internal/modkit"
	"piiquante/internal/modkit/httpkit"
	"piiquante/internal/modkit/module"

	authdom "piiquante/internal/services/auth/domain"
	authmod "piiquante/internal/services/auth/module"
	saucesmod "piiquante/internal/services/sauces/module"
)

// Options are the API options
type Options struct {
	Config config.Conf
	Store  *store.Store
	Blob   blob.Store
	Logger *logger.Logger
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg:  opt.Config,
		PG:   opt.Store.PG,
		Blob: opt.Blob,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	auth := authmod.New(deps)
	sauces := saucesmod.New(deps)

	// every sauce route sits behind bearer auth, resolved through the auth module port
	verifier := module.MustPortsOf[authdom.VerifierPort](auth)
	bearer := httpkit.NewPortFunc(verifier.VerifyToken)

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		for _, m := range []module.Module{auth, sauces} {
			module.Register(m.Name(), m.Ports())
		}

		auth.MountRoutes(api)

		httpkit.Protected(api, bearer, func(pr httpkit.Router) {
			sauces.MountRoutes(pr)
		})
	})
}
