// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ContentPostTable represents the 'content.post' table
type ContentPostTable struct {
	Table      string
	ID         string
	Author     string
	Content    string
	SearchText string
	CreatedAt  string
}

// ContentPost is the schema definition for content.post
var ContentPost = ContentPostTable{
	Table:      "content.post",
	ID:         "id",
	Author:     "author",
	Content:    "content",
	SearchText: "searchtext",
	CreatedAt:  "createdat",
}

// Columns returns all standard column names
func (t ContentPostTable) Columns() []string {
	return []string{t.ID, t.Author, t.Content, t.SearchText, t.CreatedAt}
}
