// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/socialnet/internal/platform/events"
)

/*
TestCodec verifies that every variant survives the envelope and keeps its topic.
*/
func TestCodec(t *testing.T) {
	tests := []struct {
		event events.Event
		topic events.Topic
	}{
		{events.AuthKeyGenerated{PublicKey: "MIIB"}, events.TopicAuthKeyGenerated},
		{events.UserCreated{Username: "bob", Email: "bob@test.com"}, events.TopicUserCreated},
		{events.UserBlocked{User: "bob@test.com"}, events.TopicUserBlocking},
		{events.UserUnblocked{User: "bob@test.com"}, events.TopicUserBlocking},
		{events.FriendshipRequestSent{Sender: "a@test.com", Receiver: "b@test.com"}, events.TopicFriendshipRequestSent},
		{events.FriendshipRequestAccepted{Sender: "b@test.com", Receiver: "a@test.com"}, events.TopicFriendshipRequestAccepted},
		{events.FriendshipRequestRejected{Sender: "b@test.com", Receiver: "a@test.com"}, events.TopicFriendshipRequestRejected},
		{events.MessageSent{ID: "1", Sender: "a@test.com", Receiver: "b@test.com", Message: "hi", Timestamp: "2026-01-01T00:00:00Z"}, events.TopicMessageSent},
	}

	for _, tt := range tests {
		t.Run(string(tt.event.Kind()), func(t *testing.T) {
			assert.Equal(t, tt.topic, events.TopicOf(tt.event))

			payload, err := events.Encode(tt.event)
			require.NoError(t, err)

			decoded, err := events.Decode(payload)
			require.NoError(t, err)

			if diff := cmp.Diff(tt.event, decoded); diff != "" {
				t.Errorf("decoded event mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

/*
TestCodec_WireFormat pins the envelope layout consumed by other services.
*/
func TestCodec_WireFormat(t *testing.T) {
	payload, err := events.Encode(events.AuthKeyGenerated{PublicKey: "abc"})
	require.NoError(t, err)

	assert.JSONEq(t, `{"kind":"AuthKeyGenerated","data":{"publicKey":"abc"}}`, string(payload))
}

/*
TestDecode_Rejects verifies malformed input handling.
*/
func TestDecode_Rejects(t *testing.T) {
	inputs := map[string]string{
		"NotJSON":     `nope`,
		"UnknownKind": `{"kind":"UserDeleted","data":{}}`,
		"BadData":     `{"kind":"UserCreated","data":"string"}`,
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := events.Decode([]byte(input))
			assert.Error(t, err)
		})
	}
}

/*
TestRouter verifies typed dispatch and topic discovery.
*/
func TestRouter(t *testing.T) {
	router := events.NewRouter()

	var blocked []string
	events.On(router, func(_ context.Context, event events.UserBlocked) error {
		blocked = append(blocked, event.User)
		return nil
	})
	events.On(router, func(_ context.Context, event events.UserCreated) error {
		return errors.New("store down")
	})

	assert.Equal(t, []events.Topic{events.TopicUserBlocking, events.TopicUserCreated}, router.Topics())

	require.NoError(t, router.Handle(context.Background(), events.UserBlocked{User: "bob@test.com"}))
	assert.Equal(t, []string{"bob@test.com"}, blocked)

	// Same topic, no handler registered.
	assert.NoError(t, router.Handle(context.Background(), events.UserUnblocked{User: "bob@test.com"}))

	assert.EqualError(t, router.Handle(context.Background(), events.UserCreated{}), "store down")
}
