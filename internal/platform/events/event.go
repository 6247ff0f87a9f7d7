// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package events defines the domain events exchanged between services and the
bus that carries them.

The event set is closed: every variant implements the unexported marker
method of [Event] and is registered in the kind table below, which fixes its
topic and its decoder. Adding a variant means adding one row to that table.

Wire Format:

	{"kind": "UserCreated", "data": {"username": "bob", "email": "bob@test.com"}}

Delivery is at-least-once, so every consumer must tolerate redelivery.
*/
package events

import (
	"encoding/json"
	"fmt"
)

// Kind names an event variant on the wire.
type Kind string

// Topic is a named stream of events. Several kinds may share a topic.
type Topic string

// # Topics

const (
	TopicAuthKeyGenerated          Topic = "auth-key-generated"
	TopicUserCreated               Topic = "user-created"
	TopicUserBlocking              Topic = "user-blocking-events"
	TopicFriendshipRequestSent     Topic = "friendship-request-sent"
	TopicFriendshipRequestAccepted Topic = "friendship-request-accepted"
	TopicFriendshipRequestRejected Topic = "friendship-request-rejected"
	TopicMessageSent               Topic = "message-sent"
)

// # Kinds

const (
	KindAuthKeyGenerated          Kind = "AuthKeyGenerated"
	KindUserCreated               Kind = "UserCreated"
	KindUserBlocked               Kind = "UserBlocked"
	KindUserUnblocked             Kind = "UserUnblocked"
	KindFriendshipRequestSent     Kind = "FriendshipRequestSent"
	KindFriendshipRequestAccepted Kind = "FriendshipRequestAccepted"
	KindFriendshipRequestRejected Kind = "FriendshipRequestRejected"
	KindMessageSent               Kind = "MessageSent"
)

// Event is implemented only by the variants declared in this package.
type Event interface {
	Kind() Kind
	isEvent()
}

// # Variants

// AuthKeyGenerated announces the token verification key of a users service process.
type AuthKeyGenerated struct {
	PublicKey string `json:"publicKey"`
}

// UserCreated is published once the users service stored a new account.
type UserCreated struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserBlocked is published when an administrator blocks an account.
type UserBlocked struct {
	User string `json:"user"`
}

// UserUnblocked is published when an administrator lifts a block.
type UserUnblocked struct {
	User string `json:"user"`
}

// FriendshipRequestSent is published when Sender asks Receiver for friendship.
type FriendshipRequestSent struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
}

// FriendshipRequestAccepted is published by the accepting side: Sender accepted
// the request that Receiver originally sent.
type FriendshipRequestAccepted struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
}

// FriendshipRequestRejected mirrors [FriendshipRequestAccepted] for declines.
type FriendshipRequestRejected struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
}

// MessageSent is published after a direct message was stored.
type MessageSent struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Receiver  string `json:"receiver"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func (AuthKeyGenerated) Kind() Kind          { return KindAuthKeyGenerated }
func (UserCreated) Kind() Kind               { return KindUserCreated }
func (UserBlocked) Kind() Kind               { return KindUserBlocked }
func (UserUnblocked) Kind() Kind             { return KindUserUnblocked }
func (FriendshipRequestSent) Kind() Kind     { return KindFriendshipRequestSent }
func (FriendshipRequestAccepted) Kind() Kind { return KindFriendshipRequestAccepted }
func (FriendshipRequestRejected) Kind() Kind { return KindFriendshipRequestRejected }
func (MessageSent) Kind() Kind               { return KindMessageSent }

func (AuthKeyGenerated) isEvent()          {}
func (UserCreated) isEvent()               {}
func (UserBlocked) isEvent()               {}
func (UserUnblocked) isEvent()             {}
func (FriendshipRequestSent) isEvent()     {}
func (FriendshipRequestAccepted) isEvent() {}
func (FriendshipRequestRejected) isEvent() {}
func (MessageSent) isEvent()               {}

// # Kind Table

type variant struct {
	topic  Topic
	decode func(json.RawMessage) (Event, error)
}

func decoderFor[T Event]() func(json.RawMessage) (Event, error) {
	return func(raw json.RawMessage) (Event, error) {
		var event T
		if err := json.Unmarshal(raw, &event); err != nil {
			return nil, err
		}
		return event, nil
	}
}

var variants = map[Kind]variant{
	KindAuthKeyGenerated:          {TopicAuthKeyGenerated, decoderFor[AuthKeyGenerated]()},
	KindUserCreated:               {TopicUserCreated, decoderFor[UserCreated]()},
	KindUserBlocked:               {TopicUserBlocking, decoderFor[UserBlocked]()},
	KindUserUnblocked:             {TopicUserBlocking, decoderFor[UserUnblocked]()},
	KindFriendshipRequestSent:     {TopicFriendshipRequestSent, decoderFor[FriendshipRequestSent]()},
	KindFriendshipRequestAccepted: {TopicFriendshipRequestAccepted, decoderFor[FriendshipRequestAccepted]()},
	KindFriendshipRequestRejected: {TopicFriendshipRequestRejected, decoderFor[FriendshipRequestRejected]()},
	KindMessageSent:               {TopicMessageSent, decoderFor[MessageSent]()},
}

// TopicOf returns the topic an event is published on.
func TopicOf(event Event) Topic {
	return variants[event.Kind()].topic
}

// # Codec

type envelope struct {
	Kind Kind            `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// Encode renders an event inside its kind envelope.
func Encode(event Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("events: encode %s: %w", event.Kind(), err)
	}
	return json.Marshal(envelope{Kind: event.Kind(), Data: data})
}

// Decode parses an envelope back into its concrete variant.
func Decode(payload []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("events: malformed envelope: %w", err)
	}

	v, ok := variants[env.Kind]
	if !ok {
		return nil, fmt.Errorf("events: unknown kind %q", env.Kind)
	}

	event, err := v.decode(env.Data)
	if err != nil {
		return nil, fmt.Errorf("events: decode %s: %w", env.Kind, err)
	}
	return event, nil
}
