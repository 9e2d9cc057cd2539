package service

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"inkwell/app/repositories"
	"inkwell/app/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	dbPath    string
	backupDir string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	env := &testEnv{
		dbPath:    filepath.Join(tmpDir, "test.db"),
		backupDir: filepath.Join(tmpDir, "backups"),
	}
	t.Setenv("BLOG_STORAGE_PATH", env.dbPath)
	t.Setenv("BLOG_STORAGE_BACKUP_DIR", env.backupDir)
	return env
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func openTestStore(t *testing.T, path string) *repositories.Store {
	t.Helper()
	store, err := repositories.OpenStore(repositories.StoreOptions{Path: path})
	require.NoError(t, err)
	return store
}

func TestVersion(t *testing.T) {
	setupTestEnv(t)
	SetVersion("1.2.3")
	t.Cleanup(func() { SetVersion("dev") })

	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "inkwell version 1.2.3\n", out)
}

func TestUnknownCommand(t *testing.T) {
	setupTestEnv(t)
	_, err := run(t, "", "unknown")
	assert.Error(t, err)
}

func TestRestoreRequiresFile(t *testing.T) {
	setupTestEnv(t)
	_, err := run(t, "", "restore")
	assert.Error(t, err)
}

func TestInit(t *testing.T) {
	env := setupTestEnv(t)

	t.Run("initialize new database", func(t *testing.T) {
		out, err := run(t, "", "init")
		require.NoError(t, err)
		assert.Contains(t, out, "Database initialized successfully")
		assert.DirExists(t, env.dbPath)
	})

	t.Run("initialize existing database", func(t *testing.T) {
		out, err := run(t, "", "init")
		require.NoError(t, err)
		assert.Contains(t, out, "Database already exists")
	})
}

func TestClean(t *testing.T) {
	env := setupTestEnv(t)

	t.Run("clean non-existent database", func(t *testing.T) {
		out, err := run(t, "", "clean")
		require.NoError(t, err)
		assert.Contains(t, out, "Database is already clean")
	})

	t.Run("clean existing database - cancelled", func(t *testing.T) {
		_, err := run(t, "", "init")
		require.NoError(t, err)

		out, err := run(t, "n\n", "clean")
		require.NoError(t, err)
		assert.Contains(t, out, "Operation cancelled")
		assert.DirExists(t, env.dbPath)
	})

	t.Run("clean existing database - confirmed", func(t *testing.T) {
		out, err := run(t, "y\n", "clean")
		require.NoError(t, err)
		assert.Contains(t, out, "Database cleaned successfully")
		assert.NoDirExists(t, env.dbPath)
	})

	t.Run("clean with --yes", func(t *testing.T) {
		_, err := run(t, "", "init")
		require.NoError(t, err)

		out, err := run(t, "", "clean", "--yes")
		require.NoError(t, err)
		assert.Contains(t, out, "Database cleaned successfully")
		assert.NoDirExists(t, env.dbPath)
	})
}

func TestInMemoryRejectsDiskCommands(t *testing.T) {
	setupTestEnv(t)
	t.Setenv("BLOG_STORAGE_IN_MEMORY", "true")

	for _, args := range [][]string{{"init"}, {"clean", "--yes"}, {"backup"}} {
		_, err := run(t, "", args...)
		assert.ErrorIs(t, err, errInMemory, args[0])
	}
}

const seedYAML = `
categories:
  - Go
posts:
  - title: First
    body: <p>first body</p>
    created_on: 2024-01-02T03:04:05Z
    categories: [Go, Testing]
    comments:
      - author: Ann
        body: Nice
      - author: Bob
        body: Agreed
  - title: Second
    body: second body
`

func TestSeed(t *testing.T) {
	env := setupTestEnv(t)
	seedFile := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(seedFile, []byte(seedYAML), 0644))

	out, err := run(t, "", "seed", seedFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded 1 categories, 2 posts, 2 comments")

	store := openTestStore(t, env.dbPath)
	defer store.Close()

	posts, err := services.NewPostService(store.Posts, store.Categories).ListAllPosts()
	require.NoError(t, err)
	require.Len(t, posts, 2)

	var first *struct{ id, categories int }
	for _, p := range posts {
		if p.Title == "First" {
			first = &struct{ id, categories int }{p.ID, len(p.Categories)}
			assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), p.CreatedOn.UTC())
		}
	}
	require.NotNil(t, first)
	assert.Equal(t, 2, first.categories)

	count, err := store.Comments.CountByPost(first.id)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	categories, err := store.Categories.List()
	require.NoError(t, err)
	assert.Len(t, categories, 2)
}

func TestParseSeedRejectsUnknownFields(t *testing.T) {
	_, err := ParseSeed(strings.NewReader("posts:\n  - titel: typo\n"))
	assert.Error(t, err)

	seed, err := ParseSeed(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, seed.Posts)
}

func TestApplySeedInvalidComment(t *testing.T) {
	store, err := repositories.OpenStore(repositories.StoreOptions{InMemory: true})
	require.NoError(t, err)
	defer store.Close()

	seed := &SeedFile{Posts: []SeedPost{{
		Title:    "Post",
		Body:     "Body",
		Comments: []SeedComment{{Author: "", Body: "no author"}},
	}}}
	result, err := ApplySeed(store, seed)
	assert.Error(t, err)
	assert.Equal(t, 1, result.Posts)
	assert.Zero(t, result.Comments)
}

func TestBackupAndRestore(t *testing.T) {
	env := setupTestEnv(t)

	out, err := run(t, "", "backup")
	require.NoError(t, err)
	assert.Contains(t, out, "No database exists to backup")

	seedFile := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(seedFile, []byte(seedYAML), 0644))
	_, err = run(t, "", "seed", seedFile)
	require.NoError(t, err)

	out, err = run(t, "", "backup")
	require.NoError(t, err)
	assert.Contains(t, out, "Database backed up successfully")

	entries, err := os.ReadDir(env.backupDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	backupFile := filepath.Join(env.backupDir, entries[0].Name())

	t.Run("restore cancelled", func(t *testing.T) {
		out, err := run(t, "n\n", "restore", backupFile)
		require.NoError(t, err)
		assert.Contains(t, out, "Operation cancelled")
	})

	t.Run("restore over cleaned database", func(t *testing.T) {
		_, err := run(t, "", "clean", "--yes")
		require.NoError(t, err)

		out, err := run(t, "", "restore", backupFile)
		require.NoError(t, err)
		assert.Contains(t, out, "Database restored successfully")

		store := openTestStore(t, env.dbPath)
		defer store.Close()
		posts, err := store.Posts.List()
		require.NoError(t, err)
		assert.Len(t, posts, 2)
	})

	t.Run("restore replaces existing", func(t *testing.T) {
		out, err := run(t, "", "restore", "--yes", backupFile)
		require.NoError(t, err)
		assert.Contains(t, out, "Database restored successfully")
	})

	t.Run("restore missing file", func(t *testing.T) {
		_, err := run(t, "", "restore", filepath.Join(env.backupDir, "absent.db"))
		assert.Error(t, err)
	})

	t.Run("restore empty file", func(t *testing.T) {
		empty := filepath.Join(t.TempDir(), "empty.db")
		require.NoError(t, os.WriteFile(empty, nil, 0644))
		_, err := run(t, "", "restore", "--yes", empty)
		assert.ErrorContains(t, err, "empty")
	})
}

func TestDeletePost(t *testing.T) {
	env := setupTestEnv(t)
	seedFile := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(seedFile, []byte(seedYAML), 0644))
	_, err := run(t, "", "seed", seedFile)
	require.NoError(t, err)

	out, err := run(t, "", "delete-post", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Post 1 deleted")

	_, err = run(t, "", "delete-post", "1")
	assert.ErrorIs(t, err, services.ErrPostNotFound)

	_, err = run(t, "", "delete-post", "abc")
	assert.Error(t, err)

	store := openTestStore(t, env.dbPath)
	defer store.Close()
	count, err := store.Comments.CountByPost(1)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRunServerGracefulShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runServer(ctx, srv, ln, time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
