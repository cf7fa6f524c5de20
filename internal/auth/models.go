package auth

// DevAuthRequest is a dev-mode sign-in by email.
type DevAuthRequest struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// DevAuthResponse is returned on successful dev sign-in
type DevAuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	UserID      string `json:"user_id"`
}

// JWTClaims are the claims carried in an access token
type JWTClaims struct {
	Sub string `json:"sub"` // user_id
	Iss string `json:"iss"` // issuer
	Exp int64  `json:"exp"` // expiration time
	Iat int64  `json:"iat"` // issued at
}

// ErrorResponse is the error envelope
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
