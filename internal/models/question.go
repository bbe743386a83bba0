package models

import (
	"time"
)

type Question struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Title     string     `gorm:"not null" json:"title"`
	Content   string     `gorm:"type:text" json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"-"`
	ClosedAt  *time.Time `json:"closed_at"` // nil means open

	// Author is nullable: deleting an account detaches authored content
	// instead of cascading the delete.
	AuthorID *uint `gorm:"index" json:"-"`
	Author   *User `json:"author,omitempty"`

	Answers []Answer `gorm:"foreignKey:QuestionID" json:"answers,omitempty"`

	BestAnswerID *uint   `json:"best_answer_id"`
	BestAnswer   *Answer `gorm:"foreignKey:BestAnswerID" json:"-"`

	// Derived from the votes table, not stored on the row.
	UpVotes     []string `gorm:"-" json:"up_votes"`
	DownVotes   []string `gorm:"-" json:"down_votes"`
	ContentHTML string   `gorm:"-" json:"content_html,omitempty"`
}

func (q *Question) Closed() bool {
	return q.ClosedAt != nil
}
