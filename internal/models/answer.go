package models

import (
	"time"
)

type Answer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`

	AuthorID *uint `gorm:"index" json:"-"`
	Author   *User `json:"author,omitempty"`

	// Fixed at creation, never reassigned.
	QuestionID uint `gorm:"not null;index" json:"question_id"`

	// True iff the target question's best_answer_id points at this row.
	IsBestAnswer bool `gorm:"default:false" json:"is_best_answer"`

	UpVotes     []string `gorm:"-" json:"up_votes"`
	DownVotes   []string `gorm:"-" json:"down_votes"`
	ContentHTML string   `gorm:"-" json:"content_html,omitempty"`
}
