package models

import "time"

const ProjectStatusActive = "active"

// Project is a showcase item owned by its author.
type Project struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	University   string    `gorm:"size:200;not null;default:''" json:"university"`
	CategoryID   uint      `gorm:"index;not null" json:"category_id"`
	Category     *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	ImageURL     string    `gorm:"column:image_url;size:500;not null;default:''" json:"image_url"`
	Score        float64   `gorm:"not null;default:0" json:"score"`
	SupportCount int64     `gorm:"not null;default:0" json:"support_count"`
	Views        int64     `gorm:"not null;default:0" json:"views"`
	AuthorID     uint      `gorm:"index;not null" json:"author_id"`
	Author       *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Status       string    `gorm:"size:50;not null;default:active" json:"status"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Project) TableName() string { return "projects" }

// ProjectTag is a free-text label attached to a project.
type ProjectTag struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	ProjectID uint     `gorm:"index;not null" json:"project_id"`
	Project   *Project `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	TagName   string   `gorm:"size:100;not null" json:"tag_name"`
}

func (ProjectTag) TableName() string { return "project_tags" }

// ProjectSupport records that a user supports a project. Its presence is the
// toggle state of the support action.
type ProjectSupport struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_project_support_user_project;not null" json:"user_id"`
	User      *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ProjectID uint      `gorm:"uniqueIndex:idx_project_support_user_project;index;not null" json:"project_id"`
	Project   *Project  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (ProjectSupport) TableName() string { return "project_support" }

// ProjectView is a project joined with its category and author, plus its tags.
type ProjectView struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	University     string    `json:"university"`
	CategoryID     uint      `json:"category_id"`
	CategoryName   string    `json:"category"`
	ImageURL       string    `gorm:"column:image_url" json:"image_url"`
	Score          float64   `json:"score"`
	SupportCount   int64     `json:"support_count"`
	Views          int64     `json:"views"`
	AuthorID       uint      `json:"author_id"`
	AuthorName     string    `json:"author_name"`
	AuthorUsername string    `json:"author_username"`
	AuthorAvatar   string    `json:"author_avatar"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Tags           []string  `gorm:"-" json:"tags"`
}
