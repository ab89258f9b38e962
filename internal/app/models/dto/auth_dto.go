package dto

// RegisterRequest is the payload for user registration. New accounts always
// start as learners; role changes are an admin operation.
type RegisterRequest struct {
	Email     string  `json:"email" binding:"required,email" example:"amine@formatech.tn"`
	Password  string  `json:"password" binding:"required,min=8" example:"s3cret-pass"`
	FirstName string  `json:"firstName" binding:"required,min=2,max=100" example:"Amine"`
	LastName  string  `json:"lastName" binding:"required,min=2,max=100" example:"Trabelsi"`
	Phone     *string `json:"phone,omitempty" example:"+216 20 123 456"`
}

// LoginRequest is the payload for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest is the payload for refreshing an access token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse carries a freshly issued token pair
type TokenResponse struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	ExpiresIn        int    `json:"expiresIn" example:"3600"`
	RefreshExpiresIn int    `json:"refreshExpiresIn" example:"2592000"`
	TokenType        string `json:"tokenType" example:"Bearer"`
}

// AuthResponse bundles the authenticated user with its tokens
type AuthResponse struct {
	User  UserResponse  `json:"user"`
	Token TokenResponse `json:"token"`
}
