package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/cacheables/codec"
	"github.com/jonwraymond/cacheables/key"
)

func newListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list <function-id>",
		Short: "List stored input ids for a function",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := opts.store.List(cmd.Context(), key.FunctionKey{FunctionID: args[0]})
			if err != nil {
				return err
			}
			for _, ik := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), ik.InputID)
			}
			return nil
		},
	}
}

func newInspectCommand(opts *rootOptions) *cobra.Command {
	var showOutput bool

	cmd := &cobra.Command{
		Use:   "inspect <function-id> <input-id>",
		Short: "Show the metadata of one cache record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ik := key.InputKey{FunctionID: args[0], InputID: args[1]}
			meta, err := opts.store.ReadMetadata(cmd.Context(), ik)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(meta); err != nil {
				return err
			}

			if !showOutput {
				return nil
			}

			// Decode with the codec the record was written with; the
			// configured codec is the fallback for records without one.
			name := meta.Codec.Name
			if name == "" {
				name = opts.codec
			}
			cd, err := codec.Lookup(name)
			if err != nil {
				return err
			}
			data, err := opts.store.Read(cmd.Context(), ik)
			if err != nil {
				return err
			}
			var value any
			if err := cd.Decode(data, &value); err != nil {
				return fmt.Errorf("decode output: %w", err)
			}
			return enc.Encode(value)
		},
	}

	cmd.Flags().BoolVar(&showOutput, "output", false, "also decode and print the stored output")
	return cmd
}

func newPathCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path <function-id> <input-id>",
		Short: "Print the on-disk location of a stored output",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := opts.store.OutputPath(cmd.Context(), key.InputKey{FunctionID: args[0], InputID: args[1]})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newEvictCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "evict <function-id> <input-id>",
		Short: "Remove one cache record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.store.Evict(cmd.Context(), key.InputKey{FunctionID: args[0], InputID: args[1]})
		},
	}
}

func newClearCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <function-id>",
		Short: "Remove every cache record for a function",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.store.Clear(cmd.Context(), key.FunctionKey{FunctionID: args[0]})
		},
	}
}

func newAdoptCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "adopt <from-id> <to-id>",
		Short: "Migrate records from a renamed function's id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.store.Adopt(cmd.Context(),
				key.FunctionKey{FunctionID: args[0]},
				key.FunctionKey{FunctionID: args[1]},
			)
		},
	}
}
