package dto

import "github.com/oguzatay/project-tracker-api/internal/models"

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64          `json:"id"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	FullName string          `json:"full_name"`
	Avatar   string          `json:"avatar,omitempty"`
	Role     models.UserRole `json:"role"`
}

// AuthResponse carries the user and the issued token after register/login
type AuthResponse struct {
	Message string  `json:"message"`
	User    UserDTO `json:"user"`
	Token   string  `json:"token"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		Avatar:   user.Avatar,
		Role:     user.Role,
	}
}
