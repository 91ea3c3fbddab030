package entity

import "strings"

// ChatRule is one row of the chat widget's knowledge table: a set of
// trigger keywords mapped to a canned response. Rules are evaluated in
// ascending Priority order and the first keyword hit wins.
type ChatRule struct {
	ID       int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Keywords string `gorm:"type:varchar(255);not null" json:"keywords"`
	Response string `gorm:"type:text;not null" json:"response"`
	Priority int    `gorm:"not null;default:100;index" json:"priority"`
}

func (ChatRule) TableName() string {
	return "chat_rules"
}

// Matches reports whether any of the rule's comma-separated keywords
// occurs in the already-lowercased message.
func (r *ChatRule) Matches(loweredMessage string) bool {
	for _, kw := range strings.Split(r.Keywords, ",") {
		kw = strings.TrimSpace(strings.ToLower(kw))
		if kw != "" && strings.Contains(loweredMessage, kw) {
			return true
		}
	}
	return false
}
