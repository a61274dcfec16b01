package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// https://goreleaser.com/cookbooks/using-main.version/
var (
	name    = "chordkeys"
	version string
	date    string
	commit  string
)

// takes precedence over the default binding file path
const HOTKEYS_CONFIG_HOME_VAR = "HOTKEYS_CONFIG_HOME"

// Settings are the daemon options, merged from flags and HOTKEYS_* variables.
type Settings struct {
	File      string
	LogFile   string
	LogLevel  string
	LogFormat string
	Source    string
	Page      string
}

// settingsFrom reads the merged settings out of v.
func settingsFrom(v *viper.Viper) Settings {
	return Settings{
		File:      expandVariable(v.GetString("file")),
		LogFile:   expandVariable(v.GetString("log-file")),
		LogLevel:  v.GetString("log-level"),
		LogFormat: v.GetString("log-format"),
		Source:    v.GetString("source"),
		Page:      expandVariable(v.GetString("page")),
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Every command shares one viper
// instance bound to the persistent flags and the environment.
func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:   name,
		Short: "Hotkey daemon with multi-step chords",
		Long: `Starts a hotkey daemon that binds hotkeys such as CTRL+A or chords such as
CTRL+K > C to an action. The bindings are defined in a TOML or YAML file
(hot-reload supported).

The processes executed by the daemon are detached. On Windows they inherit the
current environment refreshed with USER and SYSTEM variables from the registry.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringP("file", "f", defaultConfigPath(), "binding file path (.toml, .yaml or .yml)")
	pf.String("log-file", "", "log to this file instead of stdout")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "console", "log format (console or json)")
	pf.String("page", "", "HTML page whose data-hotkey elements are bound too")

	v.SetEnvPrefix("HOTKEYS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("file", HOTKEYS_CONFIG_HOME_VAR, "HOTKEYS_FILE")
	if err := v.BindPFlags(pf); err != nil {
		panic(fmt.Sprintf("bind flags: %v", err))
	}

	root.AddCommand(newRunCmd(v), newCheckCmd(v), newVersionCmd())
	addServiceCommand(root, v)
	return root
}

func newRunCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the hotkey daemon until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDaemon(cmd.Context(), settingsFrom(v))
		},
	}
	cmd.Flags().String("source", defaultSource, "key event source (hook or terminal)")
	if err := v.BindPFlag("source", cmd.Flags().Lookup("source")); err != nil {
		panic(fmt.Sprintf("bind source flag: %v", err))
	}
	return cmd
}

func newCheckCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the binding file and print the bindings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd.OutOrStdout(), settingsFrom(v))
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s, built on %s (commit: %s)\n", name, version, date, commit)
		},
	}
}
