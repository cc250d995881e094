package module

import (
	"piiquante/internal/services/auth/domain"
)

// Ports returns the module ports (parity with sauces)
func (m *Module) Ports() any { return m.ports }

// Ports exposes auth capabilities for cross module wiring
type Ports struct {
	Verifier domain.VerifierPort
}
