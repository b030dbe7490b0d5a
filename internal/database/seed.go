// internal/database/seed.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/spicepop/storefront/internal/config"
	"github.com/spicepop/storefront/internal/models"
	"github.com/spicepop/storefront/internal/storage"
)

// Seed populates an empty store with the demo catalog. It is a no-op once
// any user exists. Steps run one after another with cfg.StepDelay between
// them to keep the load on small managed databases low.
func Seed(ctx context.Context, store storage.Storage, cfg config.SeedConfig, log *logrus.Logger) error {
	count, err := store.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("checking existing users: %w", err)
	}
	if count > 0 {
		log.Debug("Store already seeded, skipping")
		return nil
	}

	log.Info("Seeding initial data...")

	admin := &models.User{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		IsAdmin:  true,
	}
	if err := admin.SetPassword(cfg.AdminPassword); err != nil {
		return fmt.Errorf("failed to set admin password: %w", err)
	}
	if err := store.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	log.WithField("username", admin.Username).Info("Admin user created")

	if err := pause(ctx, cfg.StepDelay); err != nil {
		return err
	}

	categoryIDs := make(map[string]uint, len(demoCategories))
	for _, c := range demoCategories {
		category := c
		if err := store.CreateCategory(ctx, &category); err != nil {
			return fmt.Errorf("failed to create category %s: %w", c.Slug, err)
		}
		categoryIDs[category.Slug] = category.ID
	}
	log.WithField("count", len(demoCategories)).Info("Categories seeded")

	if err := pause(ctx, cfg.StepDelay); err != nil {
		return err
	}

	for _, p := range demoProducts {
		product := p.Product
		if id, ok := categoryIDs[p.category]; ok {
			product.CategoryID = &id
		}
		if err := store.CreateProduct(ctx, &product); err != nil {
			return fmt.Errorf("failed to create product %s: %w", p.Slug, err)
		}
	}
	log.WithField("count", len(demoProducts)).Info("Products seeded")

	if err := pause(ctx, cfg.StepDelay); err != nil {
		return err
	}

	for _, s := range demoSettings {
		if _, err := store.UpsertSetting(ctx, s.Key, s.Value); err != nil {
			return fmt.Errorf("failed to create setting %s: %w", s.Key, err)
		}
	}
	log.WithField("count", len(demoSettings)).Info("Settings seeded")

	if err := pause(ctx, cfg.StepDelay); err != nil {
		return err
	}

	for _, b := range demoPosts {
		post := b.BlogPost
		post.AuthorID = &admin.ID
		if id, ok := categoryIDs[b.category]; ok {
			post.CategoryID = &id
		}
		if err := store.CreateBlogPost(ctx, &post); err != nil {
			return fmt.Errorf("failed to create blog post %s: %w", b.Slug, err)
		}
	}
	log.WithField("count", len(demoPosts)).Info("Blog posts seeded")

	log.Info("Initial data seeding completed")
	return nil
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var demoCategories = []models.Category{
	{Name: "Whole Spices", Slug: "whole-spices"},
	{Name: "Ground Spices", Slug: "ground-spices"},
	{Name: "Spice Blends", Slug: "spice-blends"},
	{Name: "Gift Boxes", Slug: "gift-boxes"},
}

type demoProduct struct {
	models.Product
	category string
}

var demoProducts = []demoProduct{
	{models.Product{
		Name:        "Green Cardamom",
		Slug:        "green-cardamom",
		Description: "Bold, aromatic pods from the Western Ghats. Perfect for chai and biryani.",
		Price:       models.MustMoney("349.00"),
		Stock:       40,
		IsFeatured:  true,
	}, "whole-spices"},
	{models.Product{
		Name:        "Ceylon Cinnamon Sticks",
		Slug:        "ceylon-cinnamon-sticks",
		Description: "Delicate, sweet quills of true cinnamon.",
		Price:       models.MustMoney("249.00"),
		Stock:       55,
	}, "whole-spices"},
	{models.Product{
		Name:        "Lakadong Turmeric Powder",
		Slug:        "lakadong-turmeric-powder",
		Description: "High-curcumin turmeric from Meghalaya, stone ground in small batches.",
		Price:       models.MustMoney("199.00"),
		Stock:       80,
		IsFeatured:  true,
	}, "ground-spices"},
	{models.Product{
		Name:        "Kashmiri Chilli Powder",
		Slug:        "kashmiri-chilli-powder",
		Description: "Vivid red colour with gentle heat.",
		Price:       models.MustMoney("179.50"),
		Stock:       60,
	}, "ground-spices"},
	{models.Product{
		Name:        "House Garam Masala",
		Slug:        "house-garam-masala",
		Description: "Our signature blend of twelve roasted whole spices.",
		Price:       models.MustMoney("299.00"),
		Stock:       35,
		IsFeatured:  true,
	}, "spice-blends"},
	{models.Product{
		Name:        "Festive Spice Box",
		Slug:        "festive-spice-box",
		Description: "A traditional masala dabba filled with seven everyday essentials.",
		Price:       models.MustMoney("1299.00"),
		Stock:       12,
	}, "gift-boxes"},
}

var demoSettings = []models.Setting{
	{Key: "site_name", Value: "SpicePop"},
	{Key: "hero_title", Value: "Fresh spices, straight from the source"},
	{Key: "hero_subtitle", Value: "Small-batch spices and blends delivered to your door."},
	{Key: "contact_email", Value: "hello@spicepop.in"},
	{Key: "contact_phone", Value: "+91 98765 43210"},
	{Key: "whatsapp_number", Value: "919876543210"},
	{Key: "address", Value: "12 Spice Market Road, Kochi, Kerala"},
	{Key: "instagram_url", Value: "https://instagram.com/spicepop"},
	{Key: "facebook_url", Value: "https://facebook.com/spicepop"},
}

type demoPost struct {
	models.BlogPost
	category string
}

var demoPosts = []demoPost{
	{models.BlogPost{
		Slug:      "how-to-store-whole-spices",
		Title:     "How to Store Whole Spices",
		Excerpt:   "Keep your spices fragrant for months with a few simple habits.",
		Content:   "## Keep them whole\n\nWhole spices hold their oils far longer than ground ones.\n\n## Keep them dark\n\nStore in **airtight** jars away from the stove.",
		Published: true,
	}, "whole-spices"},
	{models.BlogPost{
		Slug:      "building-a-garam-masala",
		Title:     "Building a Garam Masala",
		Excerpt:   "The roasting order matters more than the recipe.",
		Content:   "Start with the hardest spices and finish with the most delicate.\n\n- Cinnamon\n- Cloves\n- Cardamom\n- Nutmeg",
		Published: true,
	}, "spice-blends"},
	{models.BlogPost{
		Slug:    "monsoon-harvest-notes",
		Title:   "Monsoon Harvest Notes",
		Excerpt: "A draft from this season's farm visits.",
		Content: "Notes to follow.",
	}, ""},
}
