package auth

import (
	"github.com/google/uuid"

	"github.com/aventra-health/benefits-store-backend/pkg/db/models"
	"github.com/aventra-health/benefits-store-backend/pkg/enums"
)

// RegisterRequest captures the payload for creating a customer account.
// Field presence is checked in the service so the storefront sees its
// established error messages rather than generic validation output.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest carries the expired access token plus the refresh token that
// proves the session is still live.
type RefreshRequest struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// UserProfile is the account shape returned to the storefront.
type UserProfile struct {
	ID             uuid.UUID      `json:"id"`
	Email          string         `json:"email"`
	Name           string         `json:"name"`
	Role           enums.UserRole `json:"role"`
	WalletBalance  float64        `json:"walletBalance"`
	RewardsBalance float64        `json:"rewardsBalance"`
	EmployerName   *string        `json:"employerName"`
}

// AuthResponse contains the token pair and user produced by register/login.
type AuthResponse struct {
	AccessToken  string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
	User         UserProfile `json:"user"`
}

// RefreshResponse is the rotated token pair.
type RefreshResponse struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

func profileFromModel(user *models.User) UserProfile {
	return UserProfile{
		ID:             user.ID,
		Email:          user.Email,
		Name:           user.Name,
		Role:           user.Role,
		WalletBalance:  user.WalletBalance,
		RewardsBalance: user.RewardsBalance,
		EmployerName:   user.EmployerName,
	}
}
