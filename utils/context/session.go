package context

import (
	"context"

	"github.com/octabyte/bm-session/enums"
	"github.com/octabyte/bm-session/models"
)

type userKey struct{}

type stateKey struct{}

// WithUser stores the user the current request is rendered for.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// GetUserFromContext returns the user stored by WithUser.
func GetUserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey{}).(models.User)
	return user, ok
}

func WithState(ctx context.Context, state enums.SessionState) context.Context {
	return context.WithValue(ctx, stateKey{}, state)
}

func GetStateFromContext(ctx context.Context) enums.SessionState {
	state, _ := ctx.Value(stateKey{}).(enums.SessionState)
	return state
}
