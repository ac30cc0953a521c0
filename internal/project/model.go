// internal/project/model.go
package project

import (
	"time"

	"gorm.io/gorm"
)

type Project struct {
	gorm.Model
	OwnerID     uint        `gorm:"not null;index" json:"ownerId"`
	Name        string      `gorm:"size:255;not null" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Stage       string      `gorm:"size:50" json:"stage"` // e.g. "Idea", "MVP", "Revenue"
	Milestones  []Milestone `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"milestones"`
}

// Milestone is a deliverable of a project; mentorship agreements reference
// milestones by ID.
type Milestone struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ProjectID   uint       `gorm:"not null;index" json:"projectId"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	CompletedAt *time.Time `json:"completedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Project{}, &Milestone{})
}
