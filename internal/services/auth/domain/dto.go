package domain

// SignupInput registers a new account
type SignupInput struct {
	Email    string `json:"email"    validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// SignupOutput acknowledges a created account
type SignupOutput struct {
	UserID string `json:"user_id"`
}

// LoginInput exchanges credentials for a bearer token
type LoginInput struct {
	Email    string `json:"email"    validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=1,max=72"`
}

// LoginOutput carries the authenticated identity and its token
type LoginOutput struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}
