package dto

import "regexp"

// Phone format: optional country code, then area code, exchange and number,
// e.g. "+1 (555) 123-4567".
var phoneRegex = regexp.MustCompile(`^(\+\d{1,2}\s)?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}$`)

// SignupRequest is the request body for POST /auth/signup/:userType
type SignupRequest struct {
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=5"`
	ProductKey string `json:"productKey"`
}

// ValidatePhone checks the phone number format
func (r *SignupRequest) ValidatePhone() (bool, string) {
	if !phoneRegex.MatchString(r.Phone) {
		return false, "phone must look like +1 (555) 123-4567"
	}
	return true, ""
}

// SigninRequest is the request body for POST /auth/signin
type SigninRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GenerateKeyRequest is the request body for POST /auth/key
type GenerateKeyRequest struct {
	Email    string `json:"email" binding:"required,email"`
	UserType string `json:"userType" binding:"required"`
}

// AuthResponse carries a freshly minted bearer token
type AuthResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// ProductKeyResponse carries a generated product key, to be distributed
// out-of-band to the prospective privileged user.
type ProductKeyResponse struct {
	ProductKey string `json:"productKey"`
}
