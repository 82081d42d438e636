package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/coastlines/pkg/pipeline"
)

// configCommand creates the config management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the generation config file",
	}

	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configPathCommand())

	return cmd
}

// configInitCommand creates the "config init" subcommand.
func (c *CLI) configInitCommand() *cobra.Command {
	var path string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default options",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				p, err := configPath()
				if err != nil {
					return fmt.Errorf("get config path: %w", err)
				}
				path = p
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := pipeline.WriteOptions(&buf, pipeline.DefaultOptions()); err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
				return err
			}

			out := newPrinter(cmd.OutOrStdout())
			out.success("wrote default config")
			out.file(path, buf.Len())
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "output", "o", "", "config file to write (default: ~/.config/coastlines/config.toml)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective options with defaults applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadBaseOptions(path)
			if err != nil {
				return err
			}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return pipeline.WriteOptions(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&path, "config", "c", "", "config file to read")
	return cmd
}

// configPathCommand creates the "config path" subcommand.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the default config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return fmt.Errorf("get config path: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
