// Package module wires sauces into the API using modkit
package module

import (
	"net/http"

	modkit "piiquante/internal/modkit"
	"piiquante/internal/modkit/httpkit"

	shttp "piiquante/internal/services/sauces/http"
	srepo "piiquante/internal/services/sauces/repo"
	ssvc "piiquante/internal/services/sauces/service"
)

// Module implements the sauces API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws   []func(http.Handler) http.Handler
	ports any

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc *ssvc.Svc
}

// New constructs the sauces module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("sauces"),
		modkit.WithPrefix("/sauces"),
	}, opts...)...)

	cfg := FromConfig(deps.Cfg)

	svc := ssvc.New(deps.PG, srepo.NewPG(), ssvc.Options{
		Assets: deps.Blob,
		Log:    deps.Log,
	})

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{Sauces: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		shttp.Register(r, m.svc, cfg.ImageBase)
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
