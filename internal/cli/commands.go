package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/mozart/internal/version"
	"github.com/arthur-debert/mozart/pkg/compose"
	"github.com/arthur-debert/mozart/pkg/config"
	"github.com/arthur-debert/mozart/pkg/errors"
	"github.com/arthur-debert/mozart/pkg/logging"
	"github.com/arthur-debert/mozart/pkg/style"
)

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	verbosity  int
	workingDir string
	configFile string
	noEnv      bool
}

func (g *globalOptions) composeOptions() (compose.Options, error) {
	wd := g.workingDir
	if wd == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return compose.Options{}, errors.Wrap(err, errors.ErrConfiguration, MsgErrWorkingDir)
		}
		wd = cwd
	}
	return compose.Options{
		WorkingDir: wd,
		ConfigFile: g.configFile,
		SkipEnv:    g.noEnv,
	}, nil
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "mozart",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVarP(&opts.workingDir, "working-dir", "d", "", MsgFlagWorkingDir)
	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", MsgFlagConfig)
	rootCmd.PersistentFlags().BoolVar(&opts.noEnv, "no-env", false, MsgFlagNoEnv)

	rootCmd.AddCommand(newComposeCmd(opts))
	rootCmd.AddCommand(newListCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

func newComposeCmd(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "compose",
		Short:   MsgComposeShort,
		Long:    MsgComposeLong,
		Example: MsgComposeExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := outputFormat(cmd.OutOrStdout(), format)
			if err != nil {
				return err
			}
			copts, err := opts.composeOptions()
			if err != nil {
				return err
			}

			log.Info().Str("working_dir", copts.WorkingDir).Msg("Composing dependencies")

			result, err := compose.Execute(copts)
			if err != nil {
				return failed(err)
			}
			return printResult(cmd.OutOrStdout(), f, result, style.Renderer.RenderCompose)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "auto", MsgFlagFormat)
	return cmd
}

func newListCmd(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "list",
		Short:   MsgListShort,
		Example: MsgListExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := outputFormat(cmd.OutOrStdout(), format)
			if err != nil {
				return err
			}
			copts, err := opts.composeOptions()
			if err != nil {
				return err
			}

			result, err := compose.List(copts)
			if err != nil {
				return failed(err)
			}
			return printResult(cmd.OutOrStdout(), f, result, style.Renderer.RenderList)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "auto", MsgFlagFormat)
	return cmd
}

func newConfigCmd(opts *globalOptions) *cobra.Command {
	var (
		format   string
		template bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: MsgConfigShort,
		Long:  MsgConfigLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if template {
				_, err := fmt.Fprint(cmd.OutOrStdout(), config.GenerateConfigContent())
				return err
			}

			f, err := style.ParseFormat(format)
			if err != nil {
				return err
			}
			if !f.IsStructured() {
				f = style.FormatTOML
			}
			copts, err := opts.composeOptions()
			if err != nil {
				return err
			}
			cfg, err := compose.LoadConfig(copts)
			if err != nil {
				return err
			}
			out, err := style.Encode(cfg, f)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "toml", MsgFlagConfigFormat)
	cmd.Flags().BoolVar(&template, "template", false, MsgFlagTemplate)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Long:  MsgVersionLong,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, MsgVersionFormat, version.Version)
			if version.Commit != "" {
				_, _ = fmt.Fprintf(out, MsgCommitFormat, version.Commit)
			}
			if version.Date != "" {
				_, _ = fmt.Fprintf(out, MsgBuiltFormat, version.Date)
			}
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// outputFormat parses the --format flag and resolves auto against w
func outputFormat(w io.Writer, flag string) (style.Format, error) {
	f, err := style.ParseFormat(flag)
	if err != nil {
		return f, err
	}
	if f != style.FormatAuto {
		return f, nil
	}
	if file, ok := w.(*os.File); ok {
		return style.DetectFormat(file), nil
	}
	return style.FormatText, nil
}

// printResult writes result either serialized or through the renderer
func printResult(w io.Writer, f style.Format, result *compose.Result, render func(style.Renderer, *compose.Result) string) error {
	if f.IsStructured() {
		out, err := style.Encode(result, f)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, out)
		return err
	}
	_, err := fmt.Fprintln(w, render(style.NewRenderer(f), result))
	return err
}

func failed(err error) error {
	log.Error().Err(err).Interface("details", errors.GetErrorDetails(err)).Msg("Command failed")
	return err
}

// PrintError writes err to w, styled when w is a terminal
func PrintError(w *os.File, err error) {
	_, _ = fmt.Fprintln(w, style.NewRenderer(style.DetectFormat(w)).RenderError(err))
}
