package context

import (
	"context"
	"testing"

	"github.com/octabyte/bm-session/enums"
	"github.com/octabyte/bm-session/models"
	"github.com/stretchr/testify/assert"
)

func TestUserRoundTrip(t *testing.T) {
	_, ok := GetUserFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithUser(context.Background(), models.User{ID: "u1", Role: enums.RolePatient})
	user, ok := GetUserFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "u1", user.ID)
}

func TestStateRoundTrip(t *testing.T) {
	assert.Empty(t, GetStateFromContext(context.Background()))

	ctx := WithState(context.Background(), enums.SessionStateInitializing)
	assert.Equal(t, enums.SessionStateInitializing, GetStateFromContext(ctx))
}
