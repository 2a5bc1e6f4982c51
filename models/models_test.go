package models

import (
	"testing"

	"github.com/octabyte/bm-session/enums"
	"github.com/stretchr/testify/assert"
)

func TestRegisterRequest_Validate(t *testing.T) {
	valid := RegisterRequest{
		Email:     "vaidya@example.com",
		Password:  "s3cret-pass",
		FirstName: "Asha",
		LastName:  "Rao",
		Role:      enums.RolePractitioner,
	}

	tests := []struct {
		name    string
		mutate  func(r *RegisterRequest)
		wantErr bool
	}{
		{"valid practitioner", func(r *RegisterRequest) {}, false},
		{"valid patient", func(r *RegisterRequest) { r.Role = enums.RolePatient }, false},
		{"admin not registrable", func(r *RegisterRequest) { r.Role = enums.RoleAdmin }, true},
		{"dietitian not registrable", func(r *RegisterRequest) { r.Role = enums.RoleDietitian }, true},
		{"missing role", func(r *RegisterRequest) { r.Role = "" }, true},
		{"bad email", func(r *RegisterRequest) { r.Email = "not-an-email" }, true},
		{"missing password", func(r *RegisterRequest) { r.Password = "" }, true},
		{"short password left to the service", func(r *RegisterRequest) { r.Password = "abc" }, false},
		{"missing first name", func(r *RegisterRequest) { r.FirstName = "" }, true},
		{"missing last name", func(r *RegisterRequest) { r.LastName = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoginRequest_Validate(t *testing.T) {
	assert.NoError(t, (&LoginRequest{Email: "p@example.com", Password: "x"}).Validate())
	assert.Error(t, (&LoginRequest{Email: "p@example.com"}).Validate())
	assert.Error(t, (&LoginRequest{Password: "x"}).Validate())
}

func TestUser_FullName(t *testing.T) {
	assert.Equal(t, "Asha Rao", User{FirstName: "Asha", LastName: "Rao"}.FullName())
	assert.Equal(t, "Asha", User{FirstName: "Asha"}.FullName())
	assert.Equal(t, "Rao", User{LastName: "Rao"}.FullName())
}

func TestSession_IsZero(t *testing.T) {
	assert.True(t, Session{}.IsZero())
	assert.False(t, Session{Token: "t1"}.IsZero())
}
