package service

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode"

	"blogapi/app/config"
	"blogapi/app/models"
	"blogapi/app/repositories"
	"blogapi/app/services"

	"github.com/brianvoe/gofakeit/v6"
)

// seedPassword is the password of every generated user.
const seedPassword = "blogapi-seed-password"

var seedTags = []string{"Go", "Databases", "Networking", "Testing", "Tooling", "Design", "Security"}

type seedOptions struct {
	posts    int
	users    int
	comments int
	seed     int64
}

func parseSeedFlags(args []string) (seedOptions, error) {
	var opts seedOptions
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.IntVar(&opts.posts, "posts", 20, "number of posts to create")
	fs.IntVar(&opts.users, "users", 5, "number of users to create")
	fs.IntVar(&opts.comments, "comments", 3, "maximum comments per post")
	fs.Int64Var(&opts.seed, "seed", 0, "random seed (0 picks one from the clock)")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.posts < 0 || opts.users < 0 || opts.comments < 0 {
		return opts, fmt.Errorf("counts must not be negative")
	}
	if opts.seed == 0 {
		opts.seed = time.Now().UnixNano()
	}
	return opts, nil
}

// seed fills the configured database with generated users, posts and
// comments, writing through the same services the API uses.
func seed(cfg *config.Config, args []string) int {
	opts, err := parseSeedFlags(args)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}
	logger, err := newLogger(cfg.Log, os.Stderr)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	store, err := repositories.NewStore(cfg.Database.Path)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		return 1
	}
	defer store.Close()

	repos := store.Repositories()
	postOpts := services.PostOptions{
		PageSize:    cfg.Posts.PageSize,
		MaxPageSize: cfg.Posts.MaxPageSize,
		AsideSize:   cfg.Posts.AsideSize,
	}
	s := &seeder{
		faker:    gofakeit.New(opts.seed),
		users:    services.NewUserService(repos.Users, logger, cfg.Auth.BcryptCost),
		posts:    services.NewPostService(repos.Posts, postOpts),
		comments: services.NewCommentService(repos.Comments, repos.Posts),
	}
	stats, err := s.run(opts)
	if err != nil {
		fmt.Printf("Failed to seed database: %v\n", err)
		return 1
	}
	fmt.Printf("Seeded %d users, %d posts and %d comments (password for all users: %s)\n",
		stats.users, stats.posts, stats.comments, seedPassword)
	return 0
}

type seeder struct {
	faker    *gofakeit.Faker
	users    *services.UserService
	posts    *services.PostService
	comments *services.CommentService
}

type seedStats struct {
	users, posts, comments int
}

func (s *seeder) run(opts seedOptions) (seedStats, error) {
	var stats seedStats
	authors := make([]*models.User, 0, opts.users)
	for i := 0; i < opts.users; i++ {
		user, err := s.createUser()
		if err != nil {
			return stats, err
		}
		authors = append(authors, user)
		stats.users++
	}

	for i := 0; i < opts.posts; i++ {
		post, err := s.posts.CreatePost(s.postInput())
		if err != nil {
			return stats, fmt.Errorf("failed to create post: %w", err)
		}
		stats.posts++

		if len(authors) == 0 || opts.comments == 0 {
			continue
		}
		for n := s.faker.Number(0, opts.comments); n > 0; n-- {
			author := authors[s.faker.Number(0, len(authors)-1)]
			in := models.CommentInput{Text: s.faker.Sentence(s.faker.Number(4, 16))}
			if _, err := s.comments.CreateComment(post.Slug, author, in); err != nil {
				return stats, fmt.Errorf("failed to create comment: %w", err)
			}
			stats.comments++
		}
	}
	return stats, nil
}

// createUser registers a user, retrying with a fresh name when the
// generated one is taken.
func (s *seeder) createUser() (*models.User, error) {
	var lastErr error
	for attempt := 0; attempt < 5; attempt++ {
		username := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return unicode.ToLower(r)
			}
			return -1
		}, s.faker.Username())
		user, err := s.users.Register(models.RegisterInput{
			Username:  username,
			Email:     username + "@example.com",
			Password:  seedPassword,
			Password2: seedPassword,
			FirstName: s.faker.FirstName(),
			LastName:  s.faker.LastName(),
		})
		if err == nil {
			return user, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("failed to create user: %w", lastErr)
}

func (s *seeder) postInput() models.PostInput {
	title := strings.TrimSuffix(s.faker.Sentence(s.faker.Number(3, 7)), ".")
	paragraphs := make([]string, s.faker.Number(2, 5))
	for i := range paragraphs {
		paragraphs[i] = "<p>" + s.faker.Paragraph(1, s.faker.Number(3, 6), 12, " ") + "</p>"
	}
	tags := make([]string, s.faker.Number(1, 3))
	for i := range tags {
		tags[i] = s.faker.RandomString(seedTags)
	}
	return models.PostInput{
		H1:          title,
		Title:       title,
		Description: s.faker.Sentence(12),
		Content:     strings.Join(paragraphs, "\n"),
		Image:       s.faker.ImageURL(1200, 630),
		Tags:        tags,
	}
}
