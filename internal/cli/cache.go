package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gravity/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts and artifacts",
		Long: `Remove all cached layouts and artifacts.

Only the file backend can be cleared from here; Redis and MongoDB entries
expire on their own TTL.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			settings, err := cfg.CacheSettings()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			if settings.Backend != cache.BackendFile && settings.Backend != "" {
				printWarning("The %s backend cannot be cleared from the CLI", settings.Backend)
				return nil
			}

			if _, err := os.Stat(settings.Dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			fc, err := cache.NewFileCache(settings.Dir)
			if err != nil {
				return err
			}
			count, err := fc.Clear()
			if err != nil {
				return err
			}

			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			settings, err := cfg.CacheSettings()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			if settings.Dir == "" {
				printInfo("The %s backend does not use a directory", settings.Backend)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), settings.Dir)
			return nil
		},
	}
}
