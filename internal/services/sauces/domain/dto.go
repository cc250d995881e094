package domain

// SaucePayload is the client supplied portion of a sauce
// it rides inside the multipart "sauce" part on create and update
type SaucePayload struct {
	Name         string `json:"name"         validate:"required,min=1,max=120"`
	Manufacturer string `json:"manufacturer" validate:"required,min=1,max=120"`
	Description  string `json:"description"  validate:"required,min=1,max=2000"`
	MainPepper   string `json:"main_pepper"  validate:"required,min=1,max=120"`
	Heat         int    `json:"heat"         validate:"required,min=1,max=10"`
}

// ImageUpload carries raw image bytes and the declared content type
type ImageUpload struct {
	Data        []byte
	ContentType string
}

// CreateInput creates a sauce for the authenticated user
type CreateInput struct {
	UserID  string
	Payload SaucePayload
	Image   ImageUpload
}

// UpdateInput replaces the payload and optionally the image
type UpdateInput struct {
	UserID  string
	SauceID string
	Payload SaucePayload

	// Image is optional; nil keeps the current asset
	Image *ImageUpload
}

// DeleteInput removes a sauce and its asset
type DeleteInput struct {
	UserID  string
	SauceID string
}

// RateInput records an opinion signal for the authenticated user
type RateInput struct {
	UserID  string
	SauceID string
	Signal  Signal
}

// RateBody is the JSON body of the rate endpoint
type RateBody struct {
	Like int `json:"like" validate:"min=-1,max=1"`
}

// SauceView is the transport shape of a sauce
type SauceView struct {
	ID            string   `json:"id"`
	OwnerID       string   `json:"owner_id"`
	Name          string   `json:"name"`
	Manufacturer  string   `json:"manufacturer"`
	Description   string   `json:"description"`
	MainPepper    string   `json:"main_pepper"`
	Heat          int      `json:"heat"`
	ImageURL      string   `json:"image_url"`
	Likes         int      `json:"likes"`
	Dislikes      int      `json:"dislikes"`
	UsersLiked    []string `json:"users_liked"`
	UsersDisliked []string `json:"users_disliked"`
}

// View projects a sauce for transport, resolving the image locator to a URL
func View(s Sauce, imageBase string) SauceView {
	url := ""
	if s.ImageLocator != "" {
		url = imageBase + "/" + s.ImageLocator
	}
	liked := s.UsersLiked
	if liked == nil {
		liked = []string{}
	}
	disliked := s.UsersDisliked
	if disliked == nil {
		disliked = []string{}
	}
	return SauceView{
		ID:            s.ID,
		OwnerID:       s.OwnerID,
		Name:          s.Name,
		Manufacturer:  s.Manufacturer,
		Description:   s.Description,
		MainPepper:    s.MainPepper,
		Heat:          s.Heat,
		ImageURL:      url,
		Likes:         s.Likes,
		Dislikes:      s.Dislikes,
		UsersLiked:    liked,
		UsersDisliked: disliked,
	}
}
