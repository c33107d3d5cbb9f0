package domain

import "time"

type Question struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	OwnerID   string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Answer struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	QuestionID string    `json:"question_id"`
	OwnerID    string    `json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
}
