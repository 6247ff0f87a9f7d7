// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package friendship

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/socialnet/internal/platform/apperr"
	"github.com/taibuivan/socialnet/internal/platform/events"
	"github.com/taibuivan/socialnet/internal/platform/validate"
	"github.com/taibuivan/socialnet/pkg/uuid"
)

var (
	errSelfRequest = apperr.ValidationError("users cannot send a friendship request to themselves")
	errSelfMessage = apperr.ValidationError("users cannot send a message to themselves")
)

// # Service Layer

/*
Service implements the friendship use cases.

Every state change other services react to (request sent, accepted or
declined, message sent) is published after it has been stored. A failed
publish is logged and does not undo the change.
*/
type Service struct {
	repository Repository
	publisher  events.Publisher
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a new [Service] with its dependencies.
func NewService(repository Repository, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		publisher:  publisher,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// # Members

// AddMember records an account announced by the users service.
func (service *Service) AddMember(ctx context.Context, member Member) error {
	validator := &validate.Validator{}
	validator.Email(FieldEmail, member.Email)
	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repository.SaveMember(ctx, &member); err != nil {
		return fmt.Errorf("friendship_service_add_member_failed: %w", err)
	}
	return nil
}

// # Requests

/*
SendRequest stores a friendship request from "from" to "to".

Returns:
  - *Request: The pending request
  - error: ValidationError for a self request, NotFound for an unknown
    member, Conflict when already pending or already friends
*/
func (service *Service) SendRequest(ctx context.Context, from, to string) (*Request, error) {
	if err := validatePair(FieldFrom, from, FieldTo, to); err != nil {
		return nil, err
	}
	if from == to {
		return nil, errSelfRequest
	}

	if err := service.requireMembers(ctx, from, to); err != nil {
		return nil, err
	}

	friends, err := service.repository.AreFriends(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("friendship_service_send_request_failed: %w", err)
	}
	if friends {
		return nil, apperr.Conflict("users are already friends")
	}

	request := &Request{From: from, To: to, CreatedAt: service.now()}
	if err := service.repository.CreateRequest(ctx, request); err != nil {
		return nil, fmt.Errorf("friendship_service_send_request_failed: %w", err)
	}

	service.publish(ctx, events.FriendshipRequestSent{Sender: from, Receiver: to})
	return request, nil
}

// IncomingRequests lists the requests waiting for email's answer.
func (service *Service) IncomingRequests(ctx context.Context, email string) ([]*Request, error) {
	if err := validateEmail(FieldEmail, email); err != nil {
		return nil, err
	}

	requests, err := service.repository.ListIncomingRequests(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("friendship_service_list_requests_failed: %w", err)
	}
	return requests, nil
}

// AcceptRequest is called by "to" to accept the request "from" sent.
// The published event names the accepting side as sender.
func (service *Service) AcceptRequest(ctx context.Context, from, to string) (*Friendship, error) {
	if err := validatePair(FieldFrom, from, FieldTo, to); err != nil {
		return nil, err
	}

	friendship, err := service.repository.AcceptRequest(ctx, from, to, service.now())
	if err != nil {
		return nil, fmt.Errorf("friendship_service_accept_failed: %w", err)
	}

	service.publish(ctx, events.FriendshipRequestAccepted{Sender: to, Receiver: from})
	return friendship, nil
}

// DeclineRequest is called by "to" to turn down the request "from" sent.
func (service *Service) DeclineRequest(ctx context.Context, from, to string) error {
	if err := validatePair(FieldFrom, from, FieldTo, to); err != nil {
		return err
	}

	if err := service.repository.DeleteRequest(ctx, from, to); err != nil {
		return fmt.Errorf("friendship_service_decline_failed: %w", err)
	}

	service.publish(ctx, events.FriendshipRequestRejected{Sender: to, Receiver: from})
	return nil
}

// # Friendships

// Friends lists the members befriended with email.
func (service *Service) Friends(ctx context.Context, email string) ([]*Member, error) {
	if err := validateEmail(FieldEmail, email); err != nil {
		return nil, err
	}

	friends, err := service.repository.ListFriends(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("friendship_service_list_friends_failed: %w", err)
	}
	return friends, nil
}

// # Messages

/*
SendMessage stores a direct message and announces it.

Returns:
  - *Message: The stored message with its generated id
  - error: ValidationError, or Forbidden when the users are not friends
*/
func (service *Service) SendMessage(ctx context.Context, sender, receiver, content string) (*Message, error) {
	validator := &validate.Validator{}
	validator.Email(FieldSender, sender).
		Email(FieldReceiver, receiver).
		Required(FieldContent, content).
		MaxLen(FieldContent, content, MaxMessageLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}
	if sender == receiver {
		return nil, errSelfMessage
	}

	friends, err := service.repository.AreFriends(ctx, sender, receiver)
	if err != nil {
		return nil, fmt.Errorf("friendship_service_send_message_failed: %w", err)
	}
	if !friends {
		return nil, apperr.Forbidden("messages can only be sent between friends")
	}

	message := &Message{
		ID:       uuid.New(),
		Sender:   sender,
		Receiver: receiver,
		Content:  content,
		SentAt:   service.now(),
	}
	if err := service.repository.CreateMessage(ctx, message); err != nil {
		return nil, fmt.Errorf("friendship_service_send_message_failed: %w", err)
	}

	service.publish(ctx, events.MessageSent{
		ID:        message.ID,
		Sender:    message.Sender,
		Receiver:  message.Receiver,
		Message:   message.Content,
		Timestamp: message.SentAt.Format(time.RFC3339Nano),
	})
	return message, nil
}

// Message returns one message by id.
func (service *Service) Message(ctx context.Context, id string) (*Message, error) {
	validator := &validate.Validator{}
	validator.UUID(FieldID, id)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	message, err := service.repository.FindMessage(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("friendship_service_get_message_failed: %w", err)
	}
	return message, nil
}

// Chat returns the conversation between two users, oldest first.
func (service *Service) Chat(ctx context.Context, user1, user2 string) ([]*Message, error) {
	if err := validatePair(FieldUser1, user1, FieldUser2, user2); err != nil {
		return nil, err
	}

	messages, err := service.repository.ListMessagesBetween(ctx, user1, user2)
	if err != nil {
		return nil, fmt.Errorf("friendship_service_chat_failed: %w", err)
	}
	return messages, nil
}

// # Helpers

func (service *Service) requireMembers(ctx context.Context, emails ...string) error {
	for _, email := range emails {
		exists, err := service.repository.MemberExists(ctx, email)
		if err != nil {
			return fmt.Errorf("friendship_service_member_lookup_failed: %w", err)
		}
		if !exists {
			return apperr.NotFound(resourceMember)
		}
	}
	return nil
}

// publish announces a stored change. The change stands even if the bus is down.
func (service *Service) publish(ctx context.Context, event events.Event) {
	if err := service.publisher.Publish(ctx, event); err != nil {
		service.logger.ErrorContext(ctx, "friendship_event_publish_failed",
			slog.String("kind", string(event.Kind())),
			slog.Any("error", err),
		)
	}
}

func validateEmail(field, value string) error {
	validator := &validate.Validator{}
	validator.Email(field, value)
	return validator.Err()
}

func validatePair(fieldA, a, fieldB, b string) error {
	validator := &validate.Validator{}
	validator.Email(fieldA, a).Email(fieldB, b)
	return validator.Err()
}
