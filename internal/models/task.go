package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

type Task struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Title        string         `gorm:"not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Status       TaskStatus     `gorm:"type:varchar(20);not null;default:'todo'" json:"status"`
	DueDate      *time.Time     `json:"due_date"`
	AssignedToID *uint64        `json:"assigned_to_id"`
	CreatedByID  uint64         `gorm:"not null" json:"created_by_id"`
	ProjectID    uint64         `gorm:"not null" json:"project_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	AssignedTo *User   `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	CreatedBy  User    `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	Project    Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}
