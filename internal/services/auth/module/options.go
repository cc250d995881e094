package module

import (
	"time"

	"piiquante/internal/platform/config"
)

// Options controls auth behavior
type Options struct {
	Secret     string
	Issuer     string
	TTL        time.Duration
	BcryptCost int
}

// FromConfig reads AUTH_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	ac := cfg.Prefix("AUTH_")
	ac.Require("JWT_SECRET")
	return Options{
		Secret:     ac.MustString("JWT_SECRET"),
		Issuer:     ac.MayString("JWT_ISSUER", "piiquante"),
		TTL:        ac.MayDuration("JWT_TTL", 24*time.Hour),
		BcryptCost: ac.MayInt("BCRYPT_COST", 0),
	}
}
