// Package store persists the single local session as two keyed values: the
// bearer token and the serialized user record.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/octabyte/bm-session/models"
	"github.com/octabyte/bm-session/utils"
)

const (
	KeyToken = "authToken"
	KeyUser  = "userData"
)

// ErrCorrupt is returned when only one of the two keys is present or the user
// record cannot be decoded. The pair must then be cleared, never trusted.
var ErrCorrupt = errors.New("store: corrupt session record")

// Store is the durable projection of at most one session.
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	// Save replaces both keys. Readers never observe one key without the other.
	Save(ctx context.Context, session models.Session) error
	// Clear removes both keys. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}

// Snapshot is the raw content of both keys as found in the backend.
type Snapshot struct {
	Token    string
	UserData []byte
}

func (s Snapshot) IsEmpty() bool {
	return s.Token == "" && len(s.UserData) == 0
}

// Session decodes the snapshot. An empty snapshot reports ok=false with no
// error; any half-present or undecodable pair reports ErrCorrupt.
func (s Snapshot) Session() (models.Session, bool, error) {
	if s.IsEmpty() {
		return models.Session{}, false, nil
	}
	if s.Token == "" || len(s.UserData) == 0 {
		return models.Session{}, false, ErrCorrupt
	}

	var user models.User
	if err := utils.BytesToStruct(s.UserData, &user); err != nil {
		return models.Session{}, false, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if user.ID == "" {
		return models.Session{}, false, fmt.Errorf("%w: user record has no id", ErrCorrupt)
	}

	return models.Session{Token: s.Token, User: user}, true, nil
}

// encode renders a session into the two keyed values.
func encode(session models.Session) (map[string]string, error) {
	if utils.IsBlank(session.Token) || session.User.ID == "" {
		return nil, fmt.Errorf("store: refusing to save incomplete session")
	}

	userData, err := utils.StructToBytes(session.User)
	if err != nil {
		return nil, fmt.Errorf("store: encode user: %w", err)
	}

	return map[string]string{
		KeyToken: session.Token,
		KeyUser:  string(userData),
	}, nil
}
