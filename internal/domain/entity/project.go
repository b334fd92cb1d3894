package entity

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID        string    `json:"id" bson:"id" db:"id"`
	Name      string    `json:"name" bson:"name" db:"name"`
	UserID    int       `json:"user_id" bson:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" db:"created_at"`
}

func NewProject(name string, userID int) *Project {
	return &Project{
		ID:        uuid.New().String(),
		Name:      name,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
}

type Page struct {
	ID        string    `json:"id" bson:"id" db:"id"`
	ProjectID string    `json:"project_id" bson:"project_id" db:"project_id"`
	Title     string    `json:"title" bson:"title" db:"title"`
	HTML      string    `json:"html" bson:"html" db:"html"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" db:"created_at"`
}

func NewPage(projectID, title, html string) *Page {
	return &Page{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Title:     title,
		HTML:      html,
		CreatedAt: time.Now().UTC(),
	}
}
