// Command seed populates the database with demo data.
//
// It creates an admin, a handful of members, a small catalog, and enough
// engagement (progress, favorites, follows, reviews) to exercise the
// activity feed.
//
// Usage:
//
//	DATA_PATH=~/SunLib/data go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/sunlibapp/sunlib-server/internal/domain"
	"github.com/sunlibapp/sunlib-server/internal/service"
	"github.com/sunlibapp/sunlib-server/internal/store"
	"github.com/sunlibapp/sunlib-server/internal/store/sqlite"
)

func main() {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/SunLib/data")
	}

	fmt.Printf("Seeding data at: %s\n", dataPath)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	catalog, err := sqlite.Open(filepath.Join(dataPath, "catalog.db"), logger)
	if err != nil {
		log.Fatalf("Failed to open catalog: %v", err)
	}
	defer catalog.Close()

	activityStore, err := store.New(filepath.Join(dataPath, "activity"), logger)
	if err != nil {
		log.Fatalf("Failed to open activity store: %v", err)
	}
	defer activityStore.Close()

	activitySvc := service.NewActivityService(activityStore, logger)
	userSvc := service.NewUserService(catalog, logger)
	bookSvc := service.NewBookService(catalog, logger)
	engagementSvc := service.NewEngagementService(catalog, activitySvc, logger)
	reviewSvc := service.NewReviewService(catalog, activitySvc, logger)
	socialSvc := service.NewSocialService(catalog, activitySvc, logger)

	ctx := context.Background()

	// Users.
	admin := createUser(ctx, userSvc, "librarian", "librarian@sunlib.local", domain.RoleAdmin)
	members := []*domain.User{
		createUser(ctx, userSvc, "alice", "alice@sunlib.local", domain.RoleMember),
		createUser(ctx, userSvc, "bob", "bob@sunlib.local", domain.RoleMember),
		createUser(ctx, userSvc, "carol", "carol@sunlib.local", domain.RoleMember),
	}
	fmt.Printf("Created %d users\n", len(members)+1)

	// Categories.
	categoryNames := []string{"Science Fiction", "Fantasy", "Non-Fiction", "Programming"}
	categories := make([]*domain.BookCategory, 0, len(categoryNames))
	for _, name := range categoryNames {
		c, err := bookSvc.CreateCategory(ctx, admin, name)
		if err != nil {
			log.Fatalf("Failed to create category %q: %v", name, err)
		}
		categories = append(categories, c)
	}
	fmt.Printf("Created %d categories\n", len(categories))

	// Books.
	seedBooks := []struct {
		name        string
		description string
		category    int
		paperback   int
	}{
		{"Dune", "Desert planet epic", 0, 412},
		{"Hyperion", "Pilgrims tell their tales", 0, 482},
		{"The Name of the Wind", "A gifted young man grows into a legend", 1, 662},
		{"Thinking, Fast and Slow", "Two systems that drive the way we think", 2, 499},
		{"The Go Programming Language", "The authoritative guide", 3, 380},
	}
	books := make([]*domain.Book, 0, len(seedBooks))
	for _, sb := range seedBooks {
		b, err := bookSvc.CreateBook(ctx, admin, service.BookInput{
			Name:        sb.name,
			Description: sb.description,
			CategoryIDs: []string{categories[sb.category].ID},
			Paperback:   sb.paperback,
		})
		if err != nil {
			log.Fatalf("Failed to create book %q: %v", sb.name, err)
		}
		books = append(books, b)
	}
	fmt.Printf("Created %d books\n", len(books))

	// Engagement: each member reads a couple of books.
	for _, member := range members {
		for _, book := range pick(books, 2) {
			page := rand.Intn(book.Paperback + 50) // sometimes finishes
			if _, err := engagementSvc.RecordProgress(ctx, member, book.ID, page); err != nil {
				log.Fatalf("Failed to record progress: %v", err)
			}
			if rand.Intn(2) == 0 {
				if _, err := engagementSvc.SetFavorite(ctx, member, book.ID, true); err != nil {
					log.Fatalf("Failed to set favorite: %v", err)
				}
			}
			if rand.Intn(2) == 0 {
				if _, err := engagementSvc.SetRating(ctx, member, book.ID, 3+rand.Intn(3)); err != nil {
					log.Fatalf("Failed to set rating: %v", err)
				}
			}
		}
	}
	fmt.Println("Recorded reading progress")

	// Reviews.
	comments := []string{
		"Could not put it down.",
		"Slow start but worth it.",
		"Already rereading my favorite chapters.",
	}
	for i, member := range members {
		book := books[i%len(books)]
		if _, err := reviewSvc.AddReview(ctx, member, book.ID, comments[i%len(comments)]); err != nil {
			log.Fatalf("Failed to add review: %v", err)
		}
	}
	fmt.Println("Added reviews")

	// Follow graph: everyone follows alice, alice follows bob.
	for _, member := range members[1:] {
		if err := socialSvc.Follow(ctx, member, members[0].ID); err != nil {
			log.Fatalf("Failed to follow: %v", err)
		}
	}
	if err := socialSvc.Follow(ctx, members[0], members[1].ID); err != nil {
		log.Fatalf("Failed to follow: %v", err)
	}
	fmt.Println("Built follow graph")

	feed, err := activitySvc.Feed(ctx, domain.DefaultFeedLimit)
	if err != nil {
		log.Fatalf("Failed to read feed: %v", err)
	}
	fmt.Printf("\nDone. Activity feed has %d entries.\n", len(feed))
}

func createUser(ctx context.Context, svc *service.UserService, username, email string, role domain.Role) *domain.User {
	user, err := svc.CreateUser(ctx, service.CreateUserInput{
		Username: username,
		Email:    email,
		Role:     role,
	})
	if err != nil {
		log.Fatalf("Failed to create user %q: %v", username, err)
	}
	return user
}

// pick returns n random distinct books.
func pick(books []*domain.Book, n int) []*domain.Book {
	shuffled := make([]*domain.Book, len(books))
	copy(shuffled, books)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}
