package models

import (
	"time"
)

// Vote is the single source of truth for who voted on what. One row per
// (user, target) pair; "votes by user" and "voters of target" are both
// derived views of this table, so the two sides cannot drift apart.
type Vote struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index;uniqueIndex:idx_question_vote;uniqueIndex:idx_answer_vote" json:"user_id"`
	QuestionID *uint     `gorm:"uniqueIndex:idx_question_vote" json:"question_id"`
	AnswerID   *uint     `gorm:"uniqueIndex:idx_answer_vote" json:"answer_id"`
	Value      int       `gorm:"not null" json:"value"` // 1 or -1
	CreatedAt  time.Time `json:"created_at"`
}

// Postgres treats NULLs as distinct in unique indexes, so the question
// index never collides with answer votes and vice versa.
