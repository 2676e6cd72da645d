package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/finite-repr/errors"
	"github.com/wippyai/finite-repr/shapetext"
	"github.com/wippyai/finite-repr/witshape"
)

// app holds the state shared by all subcommands once the root command has
// resolved its configuration.
type app struct {
	configFile string

	cfg    *viper.Viper
	log    *zap.Logger
	target target
	codec  witshape.JSON

	// runTUI runs the explore model; tests replace it.
	runTUI func(tea.Model) error
}

func newApp() *app {
	return &app{
		log:    zap.NewNop(),
		runTUI: runProgram,
	}
}

func runProgram(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (a *app) root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finite",
		Short: "Encode values of finite shapes as fixed-width integers",
		Long: `finite maps every value of a finite type to a unique integer and back.

Types are written in shape text, either inline or read from a file with @path:

  (record (field level (enum low high)) (field boost (option u8)))`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default: ./finite.yaml)")
	flags.StringP(cfgKeyBackend, "b", defaultBackend, "backend family: u8, u16, u32, u64, u128, s8, s16, s32, s64")
	flags.String(cfgKeyLogLevel, defaultLogLevel, "log level: debug, info, warn, error")
	flags.String(cfgKeyJSONCase, defaultJSONCase, "JSON key casing of WIT names: kebab, snake, camel")

	cmd.AddCommand(
		a.cardCmd(),
		a.encodeCmd(),
		a.decodeCmd(),
		a.tableCmd(),
		a.exploreCmd(),
		a.configCmd(),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	log, err := newLogger(cmd.ErrOrStderr(), cfg.GetString(cfgKeyLogLevel))
	if err != nil {
		return errors.Wrap(errors.PhaseCLI, errors.KindInvalidInput, err, "log level")
	}
	a.log = log
	witshape.SetLogger(log.Named("witshape"))

	if a.target, err = lookupTarget(cfg.GetString(cfgKeyBackend)); err != nil {
		return err
	}
	keys, err := witshape.ParseKeyCase(cfg.GetString(cfgKeyJSONCase))
	if err != nil {
		return err
	}
	a.codec = witshape.JSON{Keys: keys}

	a.log.Debug("configured",
		zap.String("config", cfg.ConfigFileUsed()),
		zap.String("backend", a.target.Name()),
		zap.Stringer("json-case", keys))
	return nil
}

// loadType compiles a shape text argument. "@path" reads the text from a
// file.
func (a *app) loadType(arg string) (*witshape.Node, error) {
	src := arg
	if path, ok := strings.CutPrefix(arg, "@"); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseCLI, errors.KindInvalidInput, err, "read type file")
		}
		src = string(data)
	}

	n, err := shapetext.Compile(src)
	if err != nil {
		return nil, err
	}
	a.log.Debug("loaded type",
		zap.Stringer("type", n),
		zap.Stringer("cardinality", n.Cardinality()),
		zap.Bool("fits", a.target.Fits(n)))
	return n, nil
}

// readArg returns arg, or all of stdin when arg is "-".
func readArg(cmd *cobra.Command, arg string) ([]byte, error) {
	if arg != "-" {
		return []byte(arg), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return data, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
