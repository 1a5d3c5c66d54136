// File: internal/article/model.go
package article

import (
	"time"

	"dentalhub_backend/internal/common"
	"dentalhub_backend/internal/content"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Article is a clinical or professional write-up published by a member.
// New and edited articles stay pending until a moderator approves them.
type Article struct {
	common.BaseModel
	OwnerID uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Title   string         `gorm:"type:varchar(255);not null" json:"title"`
	Slug    string         `gorm:"type:varchar(280);not null;uniqueIndex" json:"slug"`
	Summary *string        `gorm:"type:varchar(500)" json:"summary,omitempty"`
	Body    string         `gorm:"type:text;not null" json:"body"`
	Tags    pq.StringArray `gorm:"type:text[]" json:"tags"`
	Status  content.Status `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Version int64          `gorm:"not null;default:1" json:"version"`
}

func (Article) TableName() string {
	return "articles"
}

// ToItem returns the moderation snapshot of the article.
func (a *Article) ToItem() *content.Item {
	return &content.Item{
		ID:      a.ID,
		Kind:    content.KindArticle,
		OwnerID: a.OwnerID,
		Title:   a.Title,
		Status:  a.Status,
		Version: a.Version,
	}
}

// --- DTOs for API requests/responses ---

type CreateArticleRequest struct {
	Title   string   `json:"title" binding:"required,min=3,max=255"`
	Summary *string  `json:"summary,omitempty" binding:"omitempty,max=500"`
	Body    string   `json:"body" binding:"required,min=10"`
	Tags    []string `json:"tags,omitempty" binding:"omitempty,max=10,dive,min=1,max=50"`
}

type UpdateArticleRequest struct {
	Title   *string  `json:"title,omitempty" binding:"omitempty,min=3,max=255"`
	Summary *string  `json:"summary,omitempty" binding:"omitempty,max=500"`
	Body    *string  `json:"body,omitempty" binding:"omitempty,min=10"`
	Tags    []string `json:"tags,omitempty" binding:"omitempty,max=10,dive,min=1,max=50"`
}

type ArticleResponse struct {
	ID        uuid.UUID      `json:"id"`
	OwnerID   uuid.UUID      `json:"owner_id"`
	Title     string         `json:"title"`
	Slug      string         `json:"slug"`
	Summary   *string        `json:"summary,omitempty"`
	Body      string         `json:"body"`
	Tags      []string       `json:"tags"`
	Status    content.Status `json:"status"`
	Version   int64          `json:"version"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ToArticleResponse converts an Article model to its API representation.
func ToArticleResponse(a *Article) ArticleResponse {
	return ArticleResponse{
		ID:        a.ID,
		OwnerID:   a.OwnerID,
		Title:     a.Title,
		Slug:      a.Slug,
		Summary:   a.Summary,
		Body:      a.Body,
		Tags:      a.Tags,
		Status:    a.Status,
		Version:   a.Version,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// SearchDocument is the Elasticsearch representation of an approved article.
type SearchDocument struct {
	Title     string    `json:"title"`
	Summary   *string   `json:"summary,omitempty"`
	Body      string    `json:"body"`
	Slug      string    `json:"slug"`
	Tags      []string  `json:"tags"`
	OwnerID   string    `json:"owner_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToSearchDocument converts an Article to its search index document.
func ToSearchDocument(a *Article) SearchDocument {
	return SearchDocument{
		Title:     a.Title,
		Summary:   a.Summary,
		Body:      a.Body,
		Slug:      a.Slug,
		Tags:      a.Tags,
		OwnerID:   a.OwnerID.String(),
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
