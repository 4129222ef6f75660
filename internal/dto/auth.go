package dto

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type RegisterResponse struct {
	RefreshToken string `json:"refresh_token"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AccessTokenResponse is returned by login and refresh. ExpiresIn is in seconds.
type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type RotateRefreshTokenResponse struct {
	RefreshToken string `json:"refresh_token"`
}

// CurrentUserResponse mirrors the identity claims carried by an access token.
type CurrentUserResponse struct {
	Username string `json:"username"`
	ID       uint   `json:"id"`
	IsAdmin  bool   `json:"is_admin"`
}
