// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notification

import (
	"encoding/json"
	"fmt"

	"github.com/taibuivan/socialnet/internal/platform/events"
)

// frameType is the discriminator of every frame sent to a client.
const frameType = "type"

// TypeAuthenticated acknowledges a valid token frame.
const TypeAuthenticated = "authenticated"

// authenticated is the first frame of an accepted socket.
type authenticated struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

// Frame renders event as a client frame: the event fields plus a "type"
// field holding the topic it was published on.
//
//	{"type":"message-sent","id":"...","sender":"...","receiver":"...","message":"hi","timestamp":"..."}
func Frame(event events.Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("notification_frame_failed: %w", err)
	}

	fields := make(map[string]any)
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("notification_frame_failed: %w", err)
	}
	fields[frameType] = events.TopicOf(event)

	return json.Marshal(fields)
}
