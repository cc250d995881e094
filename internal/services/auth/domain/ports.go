package domain

import "context"

// ServicePort is the interface implemented by the auth service
type ServicePort interface {
	Signup(ctx context.Context, in SignupInput) (SignupOutput, error)
	Login(ctx context.Context, in LoginInput) (LoginOutput, error)
}

// VerifierPort lets other modules check bearer tokens without importing the service
type VerifierPort interface {
	VerifyToken(raw string) (userID string, err error)
}
