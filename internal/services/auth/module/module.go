// Package module wires auth into the API using modkit
package module

import (
	"net/http"

	modkit "piiquante/internal/modkit"
	"piiquante/internal/modkit/httpkit"

	ahttp "piiquante/internal/services/auth/http"
	arepo "piiquante/internal/services/auth/repo"
	asvc "piiquante/internal/services/auth/service"
	"piiquante/internal/services/auth/token"
)

// Module implements the auth API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws   []func(http.Handler) http.Handler
	ports any

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc *asvc.Svc
}

// New constructs the auth module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("auth"),
		modkit.WithPrefix("/auth"),
	}, opts...)...)

	cfg := FromConfig(deps.Cfg)

	verifier := token.New(token.Config{
		Secret: []byte(cfg.Secret),
		Issuer: cfg.Issuer,
		TTL:    cfg.TTL,
	})

	svc := asvc.New(deps.PG, arepo.NewPG(), asvc.Options{
		Tokens:     verifier,
		BcryptCost: cfg.BcryptCost,
	})

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{Verifier: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		ahttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return m.prefix }
