package service

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"inkwell/app/repositories"
	"inkwell/app/services"

	"github.com/spf13/cobra"
)

var errInMemory = errors.New("command needs on-disk storage (storage.in_memory is set)")

func (c *cli) openStore() (*repositories.Store, error) {
	return repositories.OpenStore(repositories.StoreOptions{
		Path:     c.cfg.Storage.Path,
		InMemory: c.cfg.Storage.InMemory,
	})
}

func (c *cli) dbPath() (string, error) {
	if c.cfg.Storage.InMemory {
		return "", errInMemory
	}
	return c.cfg.Storage.Path, nil
}

func dbExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// confirm asks a yes/no question on cmd's streams. Only y or Y accepts.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	response = strings.TrimSpace(response)
	return response == "y" || response == "Y"
}

func (c *cli) newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new empty database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.dbPath()
			if err != nil {
				return err
			}
			if dbExists(path) {
				fmt.Fprintln(cmd.OutOrStdout(), "Database already exists. Use 'clean' first if you want to reinitialize.")
				return nil
			}
			if err := os.MkdirAll(path, 0755); err != nil {
				return fmt.Errorf("create database directory: %w", err)
			}

			store, err := c.openStore()
			if err != nil {
				return err
			}
			if err := store.Close(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Database initialized successfully")
			return nil
		},
	}
}

func (c *cli) newCleanCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the blog database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.dbPath()
			if err != nil {
				return err
			}
			if !dbExists(path) {
				fmt.Fprintln(cmd.OutOrStdout(), "Database is already clean (does not exist)")
				return nil
			}
			if !yes && !confirm(cmd, "Are you sure you want to clean the database? This cannot be undone.") {
				fmt.Fprintln(cmd.OutOrStdout(), "Operation cancelled")
				return nil
			}
			if err := os.RemoveAll(path); err != nil {
				return fmt.Errorf("clean database: %w", err)
			}
			c.log.Info("database removed", "path", path)
			fmt.Fprintln(cmd.OutOrStdout(), "Database cleaned successfully")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (c *cli) newBackupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Create a backup of the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.dbPath()
			if err != nil {
				return err
			}
			if !dbExists(path) {
				fmt.Fprintln(cmd.OutOrStdout(), "No database exists to backup")
				return nil
			}

			backupFile, err := c.backup()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database backed up successfully to %s\n", backupFile)
			return nil
		},
	}
}

func (c *cli) backup() (string, error) {
	backupDir := c.cfg.Storage.BackupDir
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	store, err := c.openStore()
	if err != nil {
		return "", err
	}
	defer store.Close()

	backupFile := filepath.Join(backupDir, fmt.Sprintf("backup_%d.db", time.Now().UnixNano()))
	f, err := os.Create(backupFile)
	if err != nil {
		return "", fmt.Errorf("create backup file: %w", err)
	}
	defer f.Close()

	if err := store.Backup(f); err != nil {
		return "", err
	}
	c.log.Info("database backed up", "file", backupFile)
	return backupFile, f.Sync()
}

func (c *cli) newRestoreCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Restore the database from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.dbPath()
			if err != nil {
				return err
			}
			backupFile := args[0]

			fi, err := os.Stat(backupFile)
			if err != nil {
				return fmt.Errorf("backup file %s: %w", backupFile, err)
			}
			if fi.Size() == 0 {
				return fmt.Errorf("backup file is empty: %s", backupFile)
			}

			if dbExists(path) {
				if !yes && !confirm(cmd, "Existing database found. Do you want to replace it?") {
					fmt.Fprintln(cmd.OutOrStdout(), "Operation cancelled")
					return nil
				}
				if err := os.RemoveAll(path); err != nil {
					return fmt.Errorf("remove existing database: %w", err)
				}
			}

			if err := c.restore(backupFile); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Database restored successfully")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "replace an existing database without asking")
	return cmd
}

func (c *cli) restore(backupFile string) error {
	f, err := os.Open(backupFile)
	if err != nil {
		return fmt.Errorf("open backup file: %w", err)
	}
	defer f.Close()

	store, err := c.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Restore(f); err != nil {
		return err
	}
	c.log.Info("database restored", "file", backupFile)
	return nil
}

func (c *cli) newDeletePostCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-post <id>",
		Short: "Delete a post together with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid post id %q", args[0])
			}

			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			return deletePost(cmd.OutOrStdout(), services.NewPostService(store.Posts, store.Categories), id)
		},
	}
}

func deletePost(out io.Writer, posts *services.PostService, id int) error {
	if err := posts.DeletePost(id); err != nil {
		return err
	}
	fmt.Fprintf(out, "Post %d deleted\n", id)
	return nil
}
