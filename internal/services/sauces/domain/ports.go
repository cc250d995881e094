package domain

import "context"

// ServicePort is the interface implemented by the sauces service
type ServicePort interface {
	List(ctx context.Context) ([]Sauce, error)
	Get(ctx context.Context, id string) (Sauce, error)
	Create(ctx context.Context, in CreateInput) (Sauce, error)
	Update(ctx context.Context, in UpdateInput) (Sauce, error)
	Delete(ctx context.Context, in DeleteInput) error
	Rate(ctx context.Context, in RateInput) (Sauce, error)
}
