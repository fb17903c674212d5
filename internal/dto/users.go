package dto

// CreateUserRequest represents the request payload for user registration.
// Fields are pointers so that a missing key and an empty string can be told
// apart: presence is validated, content is not.
type CreateUserRequest struct {
	Name  *string `json:"name" validate:"required"`
	Email *string `json:"email" validate:"required"`
}
