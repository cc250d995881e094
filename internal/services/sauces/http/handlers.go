// Package http provides http transport for sauces
package http

import (
	"io"
	stdhttp "net/http"
	"strings"

	"piiquante/internal/modkit/httpkit"
	perr "piiquante/internal/platform/errors"
	"piiquante/internal/platform/net/http/bind"
	"piiquante/internal/services/sauces/domain"
	svc "piiquante/internal/services/sauces/service"
)

// maxUploadBytes bounds the multipart form we are willing to buffer
const maxUploadBytes = 10 << 20

// Register mounts the router
func Register(r httpkit.Router, s svc.Service, imageBase string) {
	h := &handlers{svc: s, imageBase: imageBase}
	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/{id}", h.get)
	r.Post("/", httpkit.Call(h.create))
	r.Put("/{id}", httpkit.Call(h.update))
	httpkit.Delete(r, "/{id}", h.remove)
	httpkit.PostJSON[domain.RateBody](r, "/{id}/like", h.rate)
}

type handlers struct {
	svc       svc.Service
	imageBase string
}

func (h *handlers) list(r *stdhttp.Request) (any, error) {
	sauces, err := h.svc.List(r.Context())
	if err != nil {
		return nil, err
	}
	views := make([]domain.SauceView, 0, len(sauces))
	for _, s := range sauces {
		views = append(views, domain.View(s, h.imageBase))
	}
	return views, nil
}

func (h *handlers) get(r *stdhttp.Request) (any, error) {
	s, err := h.svc.Get(r.Context(), httpkit.Param(r, "id"))
	if err != nil {
		return nil, err
	}
	return domain.View(s, h.imageBase), nil
}

func (h *handlers) create(r *stdhttp.Request) (any, error) {
	user := httpkit.MustUser(r)

	payload, image, err := parseSauceForm(r, true)
	if err != nil {
		return nil, err
	}
	s, err := h.svc.Create(r.Context(), domain.CreateInput{
		UserID:  user,
		Payload: payload,
		Image:   *image,
	})
	if err != nil {
		return nil, err
	}
	return httpkit.Created(domain.View(s, h.imageBase)), nil
}

func (h *handlers) update(r *stdhttp.Request) (any, error) {
	user := httpkit.MustUser(r)

	payload, image, err := parseSauceForm(r, false)
	if err != nil {
		return nil, err
	}
	s, err := h.svc.Update(r.Context(), domain.UpdateInput{
		UserID:  user,
		SauceID: httpkit.Param(r, "id"),
		Payload: payload,
		Image:   image,
	})
	if err != nil {
		return nil, err
	}
	return domain.View(s, h.imageBase), nil
}

func (h *handlers) remove(r *stdhttp.Request) (any, error) {
	err := h.svc.Delete(r.Context(), domain.DeleteInput{
		UserID:  httpkit.MustUser(r),
		SauceID: httpkit.Param(r, "id"),
	})
	if err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

func (h *handlers) rate(r *stdhttp.Request, in domain.RateBody) (any, error) {
	s, err := h.svc.Rate(r.Context(), domain.RateInput{
		UserID:  httpkit.MustUser(r),
		SauceID: httpkit.Param(r, "id"),
		Signal:  domain.Signal(in.Like),
	})
	if err != nil {
		return nil, err
	}
	return domain.View(s, h.imageBase), nil
}

// parseSauceForm pulls the "sauce" JSON part and optional "image" file part
// out of a multipart form; requireImage makes the file part mandatory. A plain
// JSON body (no image) is also accepted when the image is optional
func parseSauceForm(r *stdhttp.Request, requireImage bool) (domain.SaucePayload, *domain.ImageUpload, error) {
	var zero domain.SaucePayload

	if !requireImage && !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		payload, err := bind.ParseJSON[domain.SaucePayload](r)
		if err != nil {
			return zero, nil, err
		}
		return payload, nil, nil
	}

	r.Body = stdhttp.MaxBytesReader(nil, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return zero, nil, perr.InvalidArgf("multipart form expected: %v", err)
	}

	raw := r.FormValue("sauce")
	if raw == "" {
		return zero, nil, perr.WithField(perr.InvalidArgf("sauce part is required"), "sauce")
	}
	payload, err := bind.ParseJSONBytes[domain.SaucePayload]([]byte(raw))
	if err != nil {
		return zero, nil, err
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		if requireImage {
			return zero, nil, perr.WithField(perr.InvalidArgf("image part is required"), "image")
		}
		return payload, nil, nil
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return zero, nil, perr.InvalidArgf("reading image: %v", err)
	}
	return payload, &domain.ImageUpload{
		Data:        data,
		ContentType: header.Header.Get("Content-Type"),
	}, nil
}
