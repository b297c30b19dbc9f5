// Package commands implements the command line interface for riot.
package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.trai.ch/riot/internal/build"
	"go.trai.ch/riot/internal/core/domain"
)

const long = `Builds .tag files to .js

Build a single .tag file:

  riot foo.tag           To a same named file (foo.js)
  riot foo.tag bar.js    To a different named file (bar.js)
  riot foo.tag bar       To a different dir (bar/foo.js)

Build all .tag files in a directory:

  riot foo/bar           To a same directory (foo/**/*.js)
  riot foo/bar baz       To a different directory (baz/**/*.js)
  riot foo/bar baz.js    To a single concatenated file (baz.js)`

const example = `  riot foo bar
  riot --w foo bar
  riot --watch foo bar
  riot --compact foo bar
  riot foo bar --compact
  riot test.tag --type coffee --expr`

// flagAliases maps the single-letter long forms onto their full flag names.
var flagAliases = map[string]string{
	"w": "watch",
	"c": "compact",
	"t": "type",
	"h": "help",
	"v": "version",
}

// CLI represents the command line interface for riot.
type CLI struct {
	app     Application
	logs    LogFormatter
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Run(ctx context.Context, opts domain.Options) error
}

// LogFormatter switches the log output between pretty and JSON lines.
type LogFormatter interface {
	SetJSON(enable bool)
}

// New creates a new CLI instance with the given app. logs may be nil, in which
// case --json has no effect.
func New(a Application, logs LogFormatter) *CLI {
	c := &CLI{app: a, logs: logs}

	rootCmd := &cobra.Command{
		Use:           "riot [flags] <from> [to]",
		Short:         "Builds .tag files to .js",
		Long:          long,
		Example:       example,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		RunE:          c.run,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.Flags().SetNormalizeFunc(normalizeFlagName)

	rootCmd.Flags().BoolP("watch", "w", false, "Watch for changes")
	rootCmd.Flags().BoolP("compact", "c", false, "Minify </p> <p> to </p><p>")
	rootCmd.Flags().StringP("type", "t", "", "JavaScript preprocessor (none, or a name defined under preprocessors in riot.yaml)")
	rootCmd.Flags().String("template", "", "HTML preprocessor (a name defined under preprocessors in riot.yaml)")
	rootCmd.Flags().Bool("expr", false, "Run expressions through the parser defined with --type")
	rootCmd.Flags().String("config", "", "Path to riot.yaml (default: search upward from the working directory)")
	rootCmd.Flags().Bool("json", false, "Write log lines as JSON")

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c.rootCmd = rootCmd
	return c
}

func (c *CLI) run(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		// Display command usage help without returning an error
		_ = cmd.Help()
		return nil
	}

	watch, _ := cmd.Flags().GetBool("watch")
	compact, _ := cmd.Flags().GetBool("compact")
	typ, _ := cmd.Flags().GetString("type")
	template, _ := cmd.Flags().GetString("template")
	expr, _ := cmd.Flags().GetBool("expr")
	configPath, _ := cmd.Flags().GetString("config")

	if jsonLogs, _ := cmd.Flags().GetBool("json"); jsonLogs && c.logs != nil {
		c.logs.SetJSON(true)
	}

	opts := domain.Options{
		From:  args[0],
		Watch: watch,
		Compile: domain.CompileOptions{
			Compact:  compact,
			Type:     typ,
			Expr:     expr,
			Template: template,
		},
		ConfigPath: configPath,
	}
	if len(args) > 1 {
		opts.To = args[1]
	}

	return c.app.Run(cmd.Context(), opts)
}

// normalizeFlagName makes long flag names case-insensitive and accepts the
// single-letter long forms such as --w.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	name = strings.ToLower(name)
	if full, ok := flagAliases[name]; ok {
		name = full
	}
	return pflag.NormalizedName(name)
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
