package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/alphabot-ai/quill/internal/client"
)

var readers = []string{"alice", "bob", "carol", "dave", "erin"}

var posts = []struct {
	title    string
	desc     string
	category string
	photo    string
	body     string
}{
	{
		title:    "Hello, Quill",
		desc:     "Why this blog exists",
		category: "meta",
		photo:    "hello.txt",
		body:     "[TOC]\n\n## Why\n\nA place to write things down.\n\n## What next\n\nMore posts, hopefully.\n",
	},
	{
		title:    "Notes on SQLite",
		desc:     "Foreign keys are off by default",
		category: "databases",
		body:     "Remember to enable `PRAGMA foreign_keys`.\n\n| pragma | value |\n|---|---|\n| foreign_keys | 1 |\n| busy_timeout | 5000 |\n",
	},
	{
		title:    "Markdown tables and task lists",
		category: "writing",
		body:     "- [x] tables\n- [x] task lists\n- [ ] footnotes\n\n~~strikethrough~~ works too.\n",
	},
	{
		title:    "Uploading photos",
		desc:     "Attach one image per post",
		category: "meta",
		photo:    "cover.txt",
		body:     "Upload with `POST /photos`, then pass the returned id as `img_id`.\n",
	},
	{
		title:    "Context everywhere",
		category: "go",
		body:     "## Rule\n\nEvery blocking call takes a `context.Context`.\n\n```go\nfunc (s *Store) GetPost(ctx context.Context, id int64) (model.Post, error)\n```\n",
	},
}

var comments = []string{
	"Great post!",
	"Thanks for writing this up.",
	"I had the same problem last week.",
	"Could you go into more detail on the second part?",
	"Bookmarked.",
	"This deserves a follow-up.",
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Quill server URL")
	email := flag.String("email", envOr("QUILL_ADMIN_EMAIL", "email@example.com"), "admin email")
	password := flag.String("password", envOr("QUILL_ADMIN_PASSWORD", "123456"), "admin password")
	flag.Parse()

	if err := run(context.Background(), *baseURL, *email, *password); err != nil {
		color.Red("✗ %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, baseURL, email, password string) error {
	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	cyan.Printf("Seeding %s\n\n", baseURL)

	helper := client.NewTestHelper(baseURL)
	admin, err := helper.LoginClient(ctx, email, password)
	if err != nil {
		return fmt.Errorf("admin login (run `quill deploy` first): %w", err)
	}
	green.Print("✓ ")
	fmt.Printf("Logged in as %s\n", email)

	var clients []*client.Client
	for _, name := range readers {
		c, err := helper.CreateAuthenticatedClient(ctx, name)
		if err != nil {
			return fmt.Errorf("reader %s: %w", name, err)
		}
		clients = append(clients, c)
		green.Print("✓ ")
		fmt.Printf("Reader: %s\n", name)
	}

	var postIDs []int64
	for _, p := range posts {
		in := client.PostInput{Title: p.title, Description: p.desc, Body: p.body, Category: p.category}
		if p.photo != "" {
			img, err := admin.UploadPhoto(ctx, p.photo, strings.NewReader("placeholder for "+p.title))
			if err != nil {
				yellow.Printf("✗ Upload %s: %v\n", p.photo, err)
			} else {
				in.ImageID = &img.ID
				green.Print("✓ ")
				fmt.Printf("Photo %s\n", img.URL)
			}
		}

		post, err := admin.CreatePost(ctx, in)
		if err != nil {
			yellow.Printf("✗ Post %q: %v\n", p.title, err)
			continue
		}
		postIDs = append(postIDs, post.ID)
		green.Print("✓ ")
		fmt.Printf("Post #%d: %s [%s]\n", post.ID, post.Title, post.Category)

		// Spread created_time so list ordering is visible.
		time.Sleep(1100 * time.Millisecond)
	}

	for _, id := range postIDs {
		n := rand.Intn(3) + 1
		for i := 0; i < n; i++ {
			c := clients[rand.Intn(len(clients))]
			comment, err := c.AddComment(ctx, id, comments[rand.Intn(len(comments))])
			if err != nil {
				yellow.Printf("✗ Comment on #%d: %v\n", id, err)
				continue
			}
			fmt.Printf("  ↳ %s on #%d: %s\n", comment.AuthorName, id, comment.Body)
		}
	}

	months, err := admin.ArchiveMonths(ctx)
	if err != nil {
		return err
	}
	fmt.Println()
	cyan.Println("Archive")
	for _, m := range months {
		fmt.Printf("  %04d-%02d  %d posts\n", m.Year, m.Month, m.Count)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
