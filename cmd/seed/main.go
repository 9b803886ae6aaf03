// Command seed fills the user, post and comment stores with demo data.
package main

import (
	"context"
	"flag"
	"log"

	"agora/internal/cache"
	"agora/internal/config"
	"agora/internal/database"
	"agora/internal/models"
	"agora/internal/seed"
	"agora/internal/service"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	perPost := flag.Int("comments", 3, "Comments per post")
	shouldClean := flag.Bool("clean", true, "Clean stores before seeding")
	fakerSeed := flag.Int64("seed", 0, "Faker seed, 0 for random")
	flag.Parse()

	log.Printf("Target: %d users, %d posts, %d comments per post, clean=%v", *numUsers, *numPosts, *perPost, *shouldClean)

	// The trending profile knows all three store names.
	cfg, err := config.LoadConfig(config.ServiceTrending)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	users, err := database.Connect(cfg, cfg.UserDBName, &models.User{})
	if err != nil {
		log.Fatalf("Failed to connect to %s: %v", cfg.UserDBName, err)
	}
	defer database.Close(users)
	posts, err := database.Connect(cfg, cfg.PostDBName, &models.Post{})
	if err != nil {
		log.Fatalf("Failed to connect to %s: %v", cfg.PostDBName, err)
	}
	defer database.Close(posts)
	comments, err := database.Connect(cfg, cfg.CommentDBName, &models.Comment{})
	if err != nil {
		log.Fatalf("Failed to connect to %s: %v", cfg.CommentDBName, err)
	}
	defer database.Close(comments)

	ctx := context.Background()
	summary, err := seed.Seed(ctx, seed.Stores{Users: users, Posts: posts, Comments: comments}, seed.Options{
		Users:           *numUsers,
		Posts:           *numPosts,
		CommentsPerPost: *perPost,
		Clean:           *shouldClean,
		Seed:            *fakerSeed,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	if rdb := cache.Connect(ctx, cfg.RedisURL); rdb != nil {
		service.InvalidateBoards(ctx, rdb)
		_ = rdb.Close()
	}

	log.Printf("Seeded %d users, %d posts, %d comments", summary.Users, summary.Posts, summary.Comments)
	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}
