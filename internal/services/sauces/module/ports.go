package module

import (
	"piiquante/internal/services/sauces/domain"
)

// Ports returns the module ports (parity with auth)
func (m *Module) Ports() any { return m.ports }

// Ports exposes sauce capabilities for cross module wiring
type Ports struct {
	Sauces domain.ServicePort
}
