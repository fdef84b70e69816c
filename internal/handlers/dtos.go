package handlers

// MFAActionRequest is the tagged-union body of the MFA endpoint.
type MFAActionRequest struct {
	Action string `json:"action" validate:"required,oneof=setup verify check validate"`
	Token  string `json:"token" validate:"omitempty,len=6,numeric"`
}

// MFASetupResponse returns the plaintext seed and provisioning material.
// This is the only time the secret leaves the server unencrypted.
type MFASetupResponse struct {
	Secret    string `json:"secret"`
	QRCodeURL string `json:"qrCodeUrl"`
	QRCodePNG string `json:"qrCodePng"`
}

type MFAValidResponse struct {
	Valid bool `json:"valid"`
}

type MFAEnabledResponse struct {
	Enabled bool `json:"enabled"`
}

// SendOTPRequest asks for a one-time code to be emailed.
type SendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Type  string `json:"type" validate:"required,oneof=login signup"`
}

// VerifyOTPRequest submits an emailed code for consumption.
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
	Type  string `json:"type" validate:"required,oneof=login signup"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

// LoginRequest starts the two-step login flow.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CompleteLoginRequest finishes login with the emailed code.
type CompleteLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	OTP      string `json:"otp" validate:"required,len=6,numeric"`
}

// SessionResponse mirrors the identity provider's token grant shape.
type SessionResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// StartSignupRequest begins signup with email verification.
type StartSignupRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// CompleteSignupRequest carries the full profile payload plus the emailed
// code. The identity provider remains authoritative on all of it.
type CompleteSignupRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,strong_password"`
	FullName    string `json:"fullName" validate:"required,max=100,full_name"`
	Phone       string `json:"phone" validate:"required,e164"`
	DateOfBirth string `json:"dateOfBirth" validate:"required,birthdate"`
	OTP         string `json:"otp" validate:"required,len=6,numeric"`
}

type SignupCompleteResponse struct {
	UserID string `json:"userId"`
}

// ChatRequest is a free-form advisor question.
type ChatRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

type RecommendationsResponse struct {
	Recommendations string `json:"recommendations"`
}
