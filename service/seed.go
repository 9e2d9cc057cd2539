package service

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"inkwell/app/forms"
	"inkwell/app/models"
	"inkwell/app/repositories"
	"inkwell/app/services"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// SeedFile is the YAML document accepted by the seed command.
type SeedFile struct {
	Categories []string   `yaml:"categories"`
	Posts      []SeedPost `yaml:"posts"`
}

type SeedPost struct {
	Title      string        `yaml:"title"`
	Body       string        `yaml:"body"`
	CreatedOn  time.Time     `yaml:"created_on"`
	Categories []string      `yaml:"categories"`
	Comments   []SeedComment `yaml:"comments"`
}

type SeedComment struct {
	Author string `yaml:"author"`
	Body   string `yaml:"body"`
}

// SeedResult counts what a seed run created.
type SeedResult struct {
	Categories int
	Posts      int
	Comments   int
}

// ParseSeed decodes a seed document. Unknown fields are rejected.
func ParseSeed(r io.Reader) (*SeedFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var seed SeedFile
	if err := dec.Decode(&seed); err != nil {
		if errors.Is(err, io.EOF) {
			return &seed, nil
		}
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return &seed, nil
}

// ApplySeed writes the seed through the services so the same validation
// rules apply as for any other write.
func ApplySeed(store *repositories.Store, seed *SeedFile) (SeedResult, error) {
	var result SeedResult
	categories := services.NewCategoryService(store.Categories)
	posts := services.NewPostService(store.Posts, store.Categories)
	comments := services.NewCommentService(store.Comments)

	for _, name := range seed.Categories {
		if _, err := store.Categories.GetByName(name); err == nil {
			continue
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return result, err
		}
		if _, err := categories.CreateCategory(name); err != nil {
			return result, fmt.Errorf("category %q: %w", name, err)
		}
		result.Categories++
	}

	for i, sp := range seed.Posts {
		post := &models.Post{Title: sp.Title, Body: sp.Body, CreatedOn: sp.CreatedOn}
		if err := posts.CreatePost(post, sp.Categories...); err != nil {
			return result, fmt.Errorf("post #%d %q: %w", i+1, sp.Title, err)
		}
		result.Posts++

		for j, sc := range sp.Comments {
			cleaned, errs := forms.ValidateComment(sc.Author, sc.Body)
			if errs != nil {
				return result, fmt.Errorf("post #%d comment #%d: invalid %v", i+1, j+1, errs)
			}
			if _, err := comments.AddComment(post, cleaned); err != nil {
				return result, fmt.Errorf("post #%d comment #%d: %w", i+1, j+1, err)
			}
			result.Comments++
		}
	}
	return result, nil
}

func (c *cli) newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Load categories, posts and comments from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open seed file: %w", err)
			}
			defer f.Close()

			seed, err := ParseSeed(f)
			if err != nil {
				return err
			}

			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			result, err := ApplySeed(store, seed)
			if err != nil {
				return err
			}
			c.log.Info("seed applied",
				"file", args[0],
				"categories", result.Categories,
				"posts", result.Posts,
				"comments", result.Comments,
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d categories, %d posts, %d comments\n",
				result.Categories, result.Posts, result.Comments)
			return nil
		},
	}
}
