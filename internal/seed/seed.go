// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"gazette/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var sectionNames = []string{
	"Politics", "Economy", "Sports", "Culture", "Science",
	"Technology", "Health", "Education", "Travel", "Local",
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	gofakeit.Seed(time.Now().UnixNano())

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway")
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	authors, err := createAuthors(db, users)
	if err != nil {
		return fmt.Errorf("failed to create authors: %w", err)
	}
	log.Printf("created %d authors", len(authors))

	categories, err := createCategories(db)
	if err != nil {
		return fmt.Errorf("failed to create categories: %w", err)
	}
	log.Printf("created %d categories", len(categories))

	if err := createSubscriptions(db, users, categories); err != nil {
		return fmt.Errorf("failed to create subscriptions: %w", err)
	}

	posts, err := createPosts(db, authors, categories, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	if err := createComments(db, users, posts); err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}

	log.Println("Seeding complete")
	return nil
}

func clearData(db *gorm.DB) error {
	tables := []string{
		"comments", "post_categories", "posts",
		"subscriptions", "categories", "authors", "users",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(db *gorm.DB, n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user := &models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:    gofakeit.Email(),
		}
		// A slice of the audience has no contact address on file.
		if i%7 == 0 {
			user.Email = ""
		}
		if err := db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createAuthors(db *gorm.DB, users []*models.User) ([]*models.Author, error) {
	// Roughly a quarter of users write for the portal.
	authors := make([]*models.Author, 0)
	for i, user := range users {
		if i%4 != 0 {
			continue
		}
		author := &models.Author{UserID: user.ID}
		if err := db.Create(author).Error; err != nil {
			return nil, err
		}
		authors = append(authors, author)
	}
	return authors, nil
}

func createCategories(db *gorm.DB) ([]*models.Category, error) {
	categories := make([]*models.Category, 0, len(sectionNames))
	for _, name := range sectionNames {
		category := &models.Category{Name: name}
		if err := db.Where(models.Category{Name: name}).
			FirstOrCreate(category).Error; err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func createSubscriptions(db *gorm.DB, users []*models.User, categories []*models.Category) error {
	for _, user := range users {
		count := rand.Intn(4)
		for _, idx := range rand.Perm(len(categories))[:count] {
			sub := &models.Subscription{
				UserID:     user.ID,
				CategoryID: categories[idx].ID,
			}
			if err := db.Create(sub).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func createPosts(db *gorm.DB, authors []*models.Author, categories []*models.Category, n int) ([]*models.Post, error) {
	if len(authors) == 0 {
		return nil, nil
	}
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := authors[rand.Intn(len(authors))]
		kind := models.PostKindArticle
		if rand.Intn(3) == 0 {
			kind = models.PostKindNews
		}
		post := &models.Post{
			AuthorID: &author.ID,
			Kind:     kind,
			Title:    gofakeit.Sentence(6),
			Body:     gofakeit.Paragraph(2, 4, 8, "\n"),
			Rating:   rand.Intn(40) - 10,
		}
		// Spread publication times over the trailing two weeks so digest
		// windows have something to pick up.
		post.CreatedAt = time.Now().
			Add(-time.Duration(rand.Intn(14*24)) * time.Hour)
		if err := db.Create(post).Error; err != nil {
			return nil, err
		}

		for _, idx := range rand.Perm(len(categories))[:1+rand.Intn(2)] {
			pc := &models.PostCategory{
				PostID:     post.ID,
				CategoryID: categories[idx].ID,
			}
			if err := db.Create(pc).Error; err != nil {
				return nil, err
			}
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func createComments(db *gorm.DB, users []*models.User, posts []*models.Post) error {
	for _, post := range posts {
		for i := 0; i < rand.Intn(5); i++ {
			comment := &models.Comment{
				PostID: post.ID,
				UserID: users[rand.Intn(len(users))].ID,
				Body:   gofakeit.Sentence(12),
				Rating: rand.Intn(10) - 3,
			}
			if err := db.Create(comment).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
