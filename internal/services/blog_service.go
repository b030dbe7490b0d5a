// internal/services/blog_service.go
package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/spicepop/storefront/internal/models"
	"github.com/spicepop/storefront/internal/storage"
	"github.com/spicepop/storefront/internal/utils"
)

type BlogService struct {
	store    storage.Storage
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
	log      logrus.FieldLogger
}

func NewBlogService(store storage.Storage, log logrus.FieldLogger) *BlogService {
	return &BlogService{
		store:    store,
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy:   bluemonday.UGCPolicy(),
		log:      log,
	}
}

// ListPosts returns published posts, or every post when includeDrafts is set.
func (s *BlogService) ListPosts(ctx context.Context, includeDrafts bool) ([]models.BlogPost, error) {
	posts, err := s.store.GetBlogPosts(ctx, !includeDrafts)
	if err != nil {
		return nil, fmt.Errorf("failed to list blog posts: %w", err)
	}
	return posts, nil
}

// GetPublishedPost returns a published post by slug with its rendered body.
// Drafts are reported as not found.
func (s *BlogService) GetPublishedPost(ctx context.Context, slug string) (*models.BlogPost, error) {
	post, err := s.store.GetBlogPostBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !post.Published {
		return nil, storage.ErrNotFound
	}

	if err := s.render(post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *BlogService) CreatePost(ctx context.Context, author *models.User, req *models.CreateBlogPostRequest) (*models.BlogPost, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	postSlug, err := resolveSlug(req.Slug, req.Title, 255)
	if err != nil {
		return nil, err
	}
	if err := ensureCategory(ctx, s.store, req.CategoryID); err != nil {
		return nil, err
	}

	post := &models.BlogPost{
		Slug:       postSlug,
		Title:      req.Title,
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		ImageURL:   req.ImageURL,
		CategoryID: req.CategoryID,
		Published:  req.Published,
	}
	if author != nil {
		post.AuthorID = &author.ID
	}

	if err := s.store.CreateBlogPost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create blog post: %w", err)
	}

	s.log.WithFields(logrus.Fields{"post_id": post.ID, "slug": post.Slug}).Info("Blog post created")
	return post, nil
}

func (s *BlogService) UpdatePost(ctx context.Context, id uint, req *models.UpdateBlogPostRequest) (*models.BlogPost, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := ensureCategory(ctx, s.store, req.CategoryID); err != nil {
		return nil, err
	}

	post, err := s.store.UpdateBlogPost(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update blog post: %w", err)
	}
	return post, nil
}

func (s *BlogService) DeletePost(ctx context.Context, id uint) error {
	deleted, err := s.store.DeleteBlogPost(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete blog post: %w", err)
	}
	if !deleted {
		return storage.ErrNotFound
	}
	return nil
}

// RenderMarkdown converts post content to sanitized HTML.
func (s *BlogService) RenderMarkdown(content string) (string, error) {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return string(s.policy.SanitizeBytes(buf.Bytes())), nil
}

func (s *BlogService) render(post *models.BlogPost) error {
	html, err := s.RenderMarkdown(post.Content)
	if err != nil {
		return err
	}
	post.ContentHTML = html
	return nil
}
