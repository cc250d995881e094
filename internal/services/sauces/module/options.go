package module

import (
	"piiquante/internal/platform/config"
)

// Options controls sauces behavior
type Options struct {
	// ImageBase is the public URL prefix assets are served from
	ImageBase string
}

// FromConfig reads SAUCES_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	sc := cfg.Prefix("SAUCES_")
	return Options{
		ImageBase: sc.MayString("IMAGE_BASE_URL", "/images"),
	}
}
