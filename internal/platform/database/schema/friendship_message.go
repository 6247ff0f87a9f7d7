// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// FriendshipMessageTable represents the 'friendship.message' table
type FriendshipMessageTable struct {
	Table    string
	ID       string
	Sender   string
	Receiver string
	Content  string
	SentAt   string
}

// FriendshipMessage is the schema definition for friendship.message
var FriendshipMessage = FriendshipMessageTable{
	Table:    "friendship.message",
	ID:       "id",
	Sender:   "sender",
	Receiver: "receiver",
	Content:  "content",
	SentAt:   "sentat",
}

// Columns returns all standard column names
func (t FriendshipMessageTable) Columns() []string {
	return []string{t.ID, t.Sender, t.Receiver, t.Content, t.SentAt}
}
