// internal/models/product.go
package models

type Category struct {
	BaseModel
	Name     string  `json:"name" gorm:"size:100;not null"`
	Slug     string  `json:"slug" gorm:"uniqueIndex;size:100;not null"`
	ImageURL *string `json:"imageUrl" gorm:"column:image_url"`
}

type Product struct {
	BaseModel
	Name        string  `json:"name" gorm:"size:255;not null"`
	Slug        string  `json:"slug" gorm:"uniqueIndex;size:255;not null"`
	Description string  `json:"description" gorm:"type:text;not null"`
	Price       Money   `json:"price" gorm:"type:numeric(10,2);not null"`
	Stock       int     `json:"stock" gorm:"not null;default:0"`
	ImageURL    *string `json:"imageUrl" gorm:"column:image_url"`
	CategoryID  *uint   `json:"categoryId" gorm:"index"`
	IsFeatured  bool    `json:"isFeatured" gorm:"not null;default:false"`
}

type CreateCategoryRequest struct {
	Name     string  `json:"name" validate:"required,min=1,max=100"`
	Slug     string  `json:"slug,omitempty" validate:"omitempty,slug,max=100"`
	ImageURL *string `json:"imageUrl,omitempty" validate:"omitempty,max=2048"`
}

type UpdateCategoryRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Slug     *string `json:"slug,omitempty" validate:"omitempty,slug,max=100"`
	ImageURL *string `json:"imageUrl,omitempty" validate:"omitempty,max=2048"`
}

type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Slug        string  `json:"slug,omitempty" validate:"omitempty,slug,max=255"`
	Description string  `json:"description" validate:"required"`
	Price       *Money  `json:"price" validate:"required,money"`
	Stock       int     `json:"stock" validate:"min=0"`
	ImageURL    *string `json:"imageUrl,omitempty" validate:"omitempty,max=2048"`
	CategoryID  *uint   `json:"categoryId,omitempty" validate:"omitempty,min=1"`
	IsFeatured  bool    `json:"isFeatured"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Slug        *string `json:"slug,omitempty" validate:"omitempty,slug,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,min=1"`
	Price       *Money  `json:"price,omitempty" validate:"omitempty,money"`
	Stock       *int    `json:"stock,omitempty" validate:"omitempty,min=0"`
	ImageURL    *string `json:"imageUrl,omitempty" validate:"omitempty,max=2048"`
	CategoryID  *uint   `json:"categoryId,omitempty" validate:"omitempty,min=1"`
	IsFeatured  *bool   `json:"isFeatured,omitempty"`
}

// ProductFilter narrows GetProducts. The zero value lists everything.
type ProductFilter struct {
	CategoryID   *uint
	FeaturedOnly bool
}
