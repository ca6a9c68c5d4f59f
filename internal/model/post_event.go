package model

import "time"

const (
	PostEventCreated = "post.created"
	PostEventUpdated = "post.updated"
	PostEventDeleted = "post.deleted"
	PostEventViewed  = "post.viewed"
)

// PostEvent 帖子生命周期事件
type PostEvent struct {
	Type       string    `json:"type"`
	PostID     string    `json:"post_id"`
	ActorID    string    `json:"actor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
