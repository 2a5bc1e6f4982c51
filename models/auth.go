package models

import (
	"github.com/go-playground/validator/v10"
	"github.com/octabyte/bm-session/enums"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("registrable_role", func(fl validator.FieldLevel) bool {
		return enums.Role(fl.Field().String()).IsRegistrable()
	})
	return v
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	return validate.Struct(r)
}

type RegisterRequest struct {
	Email     string     `json:"email" form:"email" validate:"required,email"`
	Password  string     `json:"password" form:"password" validate:"required"`
	FirstName string     `json:"firstName" form:"firstName" validate:"required"`
	LastName  string     `json:"lastName" form:"lastName" validate:"required"`
	Role      enums.Role `json:"role" form:"role" validate:"required,registrable_role"`
}

func (r *RegisterRequest) Validate() error {
	return validate.Struct(r)
}

// AuthResponse is the body returned by the login and register endpoints.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	User        *User  `json:"user"`
}

// ErrorResponse is the body the auth service sends on non-2xx responses.
type ErrorResponse struct {
	Message string `json:"message"`
}
