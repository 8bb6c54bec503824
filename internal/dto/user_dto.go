package dto

import (
	"github.com/avstream/media_access_app/internal/core/domain"
)

// CreateUserRequest defines the data for registering a user.
type CreateUserRequest struct {
	Username string   `json:"username" binding:"required,min=3,max=100"`
	Email    string   `json:"email" binding:"required,email"`
	Name     string   `json:"name" binding:"required,max=255"`
	Password string   `json:"password" binding:"required,min=8"`
	Groups   []string `json:"groups"`
}

// UserResponse is the API representation of a user.
type UserResponse struct {
	UserID   string   `json:"userID"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Groups   []string `json:"groups"`
}

// ToUserResponse converts a domain user.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:   user.UserID,
		Username: user.Username,
		Email:    user.Email,
		Name:     user.Name,
		Groups:   user.Groups,
	}
}
