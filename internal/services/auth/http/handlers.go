// Package http provides http transport for auth
package http

import (
	stdhttp "net/http"

	"piiquante/internal/modkit/httpkit"
	"piiquante/internal/services/auth/domain"
	svc "piiquante/internal/services/auth/service"
)

// Register mounts the router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.SignupInput](r, "/signup", h.signup)
	httpkit.PostJSON[domain.LoginInput](r, "/login", h.login)
}

type handlers struct{ svc svc.Service }

func (h *handlers) signup(r *stdhttp.Request, in domain.SignupInput) (any, error) {
	out, err := h.svc.Signup(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(out), nil
}

func (h *handlers) login(r *stdhttp.Request, in domain.LoginInput) (any, error) {
	return h.svc.Login(r.Context(), in)
}
