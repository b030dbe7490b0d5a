// internal/models/content.go
package models

// Setting is a free-form key/value pair for site text such as contact details
// and social links.
type Setting struct {
	BaseModel
	Key   string `json:"key" gorm:"uniqueIndex;size:100;not null"`
	Value string `json:"value" gorm:"type:text;not null"`
}

type UpdateSettingRequest struct {
	Value *string `json:"value" validate:"required"`
}

type BlogPost struct {
	BaseModel
	Slug       string  `json:"slug" gorm:"uniqueIndex;size:255;not null"`
	Title      string  `json:"title" gorm:"size:255;not null"`
	Excerpt    string  `json:"excerpt" gorm:"type:text;not null"`
	Content    string  `json:"content" gorm:"type:text;not null"`
	ImageURL   *string `json:"imageUrl" gorm:"column:image_url"`
	CategoryID *uint   `json:"categoryId" gorm:"index"`
	AuthorID   *uint   `json:"authorId" gorm:"index"`
	Published  bool    `json:"published" gorm:"not null;default:false"`

	// Rendered on single-post reads only.
	ContentHTML string `json:"contentHtml,omitempty" gorm:"-"`
}

func (BlogPost) TableName() string {
	return "blog_posts"
}

type CreateBlogPostRequest struct {
	Title      string  `json:"title" validate:"required,min=1,max=255"`
	Slug       string  `json:"slug,omitempty" validate:"omitempty,slug,max=255"`
	Excerpt    string  `json:"excerpt" validate:"required"`
	Content    string  `json:"content" validate:"required"`
	ImageURL   *string `json:"imageUrl,omitempty" validate:"omitempty,max=2048"`
	CategoryID *uint   `json:"categoryId,omitempty" validate:"omitempty,min=1"`
	Published  bool    `json:"published"`
}

type UpdateBlogPostRequest struct {
	Title      *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Slug       *string `json:"slug,omitempty" validate:"omitempty,slug,max=255"`
	Excerpt    *string `json:"excerpt,omitempty" validate:"omitempty,min=1"`
	Content    *string `json:"content,omitempty" validate:"omitempty,min=1"`
	ImageURL   *string `json:"imageUrl,omitempty" validate:"omitempty,max=2048"`
	CategoryID *uint   `json:"categoryId,omitempty" validate:"omitempty,min=1"`
	Published  *bool   `json:"published,omitempty"`
}
