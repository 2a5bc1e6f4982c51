package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/octabyte/bm-session/enums"
	"github.com/octabyte/bm-session/store"
)

type recordingPublisher struct {
	bodies [][]byte
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, body []byte) error {
	p.bodies = append(p.bodies, body)
	return p.err
}

func TestPublishToEncodesEvent(t *testing.T) {
	pub := &recordingPublisher{}
	listener := PublishTo(pub)

	listener(context.Background(), Event{
		Type:   enums.SessionEventInvalidated,
		UserID: "u1",
		Role:   enums.RolePatient,
		Reason: "unauthorized",
		At:     time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	})

	require.Len(t, pub.bodies, 1)
	body := string(pub.bodies[0])
	assert.Equal(t, "session.invalidated", gjson.Get(body, "type").String())
	assert.Equal(t, "u1", gjson.Get(body, "userId").String())
	assert.Equal(t, "patient", gjson.Get(body, "role").String())
	assert.Equal(t, "unauthorized", gjson.Get(body, "reason").String())
	assert.Equal(t, "2024-03-01T09:00:00Z", gjson.Get(body, "at").String())
	assert.False(t, gjson.Get(body, "token").Exists())
}

func TestPublishToSwallowsFailures(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("channel closed")}
	listener := PublishTo(pub)

	assert.NotPanics(t, func() {
		listener(context.Background(), Event{Type: enums.SessionEventLogout, UserID: "u1"})
	})
	assert.Len(t, pub.bodies, 1)
}

func TestManagerPublishesLifecycle(t *testing.T) {
	pub := &recordingPublisher{}
	client := &fakeClient{login: respondWith("t1", doctor)}
	m := NewManager(client, store.NewMemory(), WithListener(PublishTo(pub)))
	defer m.Close()

	require.NoError(t, m.Initialize(context.Background()))
	require.NoError(t, m.Login(context.Background(), "ivan@example.com", "secret"))
	require.NoError(t, m.Logout(context.Background()))

	require.Len(t, pub.bodies, 2)
	assert.Equal(t, "session.login", gjson.GetBytes(pub.bodies[0], "type").String())
	assert.Equal(t, "practitioner", gjson.GetBytes(pub.bodies[0], "role").String())
	assert.Equal(t, "session.logout", gjson.GetBytes(pub.bodies[1], "type").String())
}
