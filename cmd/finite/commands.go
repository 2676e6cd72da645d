package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/finite-repr/backend"
	"github.com/wippyai/finite-repr/index"
)

func (a *app) cardCmd() *cobra.Command {
	var backends bool
	cmd := &cobra.Command{
		Use:   "card <type>",
		Short: "Print the number of values of a type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.loadType(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			card := n.Cardinality()
			fmt.Fprintln(out, card)
			if !backends {
				return nil
			}
			for _, d := range backend.All() {
				fits := "no"
				if card.Cmp(d.Cardinality()) <= 0 {
					fits = "yes"
				}
				fmt.Fprintf(out, "%-5s %s\n", d.Name(), fits)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&backends, "backends", false, "also list which backends hold every value")
	return cmd
}

func (a *app) encodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <type> <json>",
		Short: "Encode a JSON value of a type as an integer",
		Long: `Encode a JSON value of a type as an integer in the configured backend.
Pass - as the value to read it from stdin.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.loadType(args[0])
			if err != nil {
				return err
			}
			data, err := readArg(cmd, args[1])
			if err != nil {
				return err
			}
			v, err := a.codec.Unmarshal(n, data)
			if err != nil {
				return err
			}
			enc, err := a.target.Encode(n, v)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), enc)
			return nil
		},
	}
}

func (a *app) decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <type> <integer>",
		Short: "Decode an integer back to a JSON value of a type",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.loadType(args[0])
			if err != nil {
				return err
			}
			v, err := a.target.Decode(n, args[1])
			if err != nil {
				return err
			}
			data, err := a.codec.Marshal(n, v)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func (a *app) tableCmd() *cobra.Command {
	var limit uint64
	cmd := &cobra.Command{
		Use:   "table <type>",
		Short: "List values of a type in encoding order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.loadType(args[0])
			if err != nil {
				return err
			}
			if !a.target.Fits(n) {
				a.log.Warn("type has more values than the backend can hold; listing stops at the backend maximum",
					zap.Stringer("cardinality", n.Cardinality()),
					zap.String("backend", a.target.Name()))
			}

			out := cmd.OutOrStdout()
			styled := isTerminal(out)
			var shown uint64
			for enc, v := range a.target.Values(n) {
				if limit > 0 && shown == limit {
					break
				}
				data, err := a.codec.Marshal(n, v)
				if err != nil {
					return err
				}
				if styled {
					enc = encodingStyle.Render(enc)
				}
				fmt.Fprintf(out, "%s  %s\n", enc, data)
				shown++
			}

			var line string
			card := n.Cardinality()
			if rest, ok := card.Sub(index.From64(shown)); ok && !rest.IsZero() {
				line = fmt.Sprintf("... %s more", rest)
			} else if card.IsUnbounded() {
				line = "... more"
			}
			if line != "" {
				if styled {
					line = helpStyle.Render(line)
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&limit, "limit", 32, "maximum number of rows, 0 for all")
	return cmd
}

func (a *app) exploreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explore <type>",
		Short: "Browse the values of a type interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.loadType(args[0])
			if err != nil {
				return err
			}
			return a.runTUI(newExploreModel(n, a.target, a.codec))
		},
	}
}

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default finite.yaml",
		Args:  cobra.MaximumNArgs(1),
		// The file may not exist yet, so configuration is not loaded.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configFileName + "." + configFileType
			if len(args) == 1 {
				path = args[0]
			}
			if err := writeDefaultConfig(path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			file := a.cfg.ConfigFileUsed()
			if file == "" {
				file = "(none)"
			}
			fmt.Fprintf(out, "config     %s\n", file)
			for _, key := range []string{cfgKeyBackend, cfgKeyLogLevel, cfgKeyJSONCase} {
				fmt.Fprintf(out, "%-10s %s\n", key, a.cfg.GetString(key))
			}
			return nil
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
