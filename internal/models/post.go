package models

import "time"

// MaxPostBodyLen is the maximum number of characters allowed in a post body.
const MaxPostBodyLen = 200

// Post represents a single entry on the timeline.
//
// Posts are never hard-deleted: moderation flips Current to false and the
// row stays behind for history. Timestamp is the creation time and never
// changes; UpdateDate is set only when the author edits the body.
type Post struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Body       string     `gorm:"size:200;not null" json:"body"`
	Timestamp  time.Time  `gorm:"index" json:"timestamp"`
	UpdateDate *time.Time `json:"update_date,omitempty"`
	Current    bool       `gorm:"index;default:true" json:"current"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	Author     User       `gorm:"foreignKey:UserID" json:"author"`
}

// EditableBy reports whether user may edit this post. Only the author may
// edit, regardless of role. A nil user denies.
func (p *Post) EditableBy(user *User) bool {
	if user == nil || user.ID == 0 {
		return false
	}
	return p.UserID == user.ID
}

// DeletableBy reports whether user may soft-delete this post. Only admins
// may delete. A nil user denies.
func (p *Post) DeletableBy(user *User) bool {
	if user == nil {
		return false
	}
	return user.IsAdmin()
}
