package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/cacheables/store"
)

// rootOptions holds global flags shared by all commands.
type rootOptions struct {
	Dir        string
	ConfigPath string

	store *store.DiskStore
	codec string
}

// fileConfig is the YAML config file shape.
type fileConfig struct {
	Dir   string `yaml:"dir"`
	Codec string `yaml:"codec"`
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "cacheables",
		Short: "Inspect and maintain a cacheables disk cache",
		Long: `cacheables operates on a disk cache directory written by the cacheables
library: list stored inputs, inspect records, evict or clear entries, and
migrate records after a function rename.

The cache directory is resolved from --dir, then the config file, then
the CACHEABLES_DISK_PATH environment variable, then ./.cacheables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Dir, "dir", "", "cache directory")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "YAML config file (keys: dir, codec)")

	cmd.AddCommand(newListCommand(opts))
	cmd.AddCommand(newInspectCommand(opts))
	cmd.AddCommand(newPathCommand(opts))
	cmd.AddCommand(newEvictCommand(opts))
	cmd.AddCommand(newClearCommand(opts))
	cmd.AddCommand(newAdoptCommand(opts))

	return cmd
}

// resolve builds the disk store from flags and config.
func (o *rootOptions) resolve() error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}

	dir := o.Dir
	if dir == "" {
		dir = cfg.Dir
	}
	o.store = store.NewDisk(dir)
	o.codec = cfg.Codec
	return nil
}

func (o *rootOptions) loadConfig() (fileConfig, error) {
	var cfg fileConfig
	if o.ConfigPath == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(o.ConfigPath)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", o.ConfigPath, err)
	}
	return cfg, nil
}
