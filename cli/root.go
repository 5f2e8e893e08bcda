package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/CodMac/go-treesitter-impl-merger/config"
	"github.com/spf13/cobra"

	// 导入所有语言的实现，以触发其 init() 函数注册 Collector 和 Language
	_ "github.com/CodMac/go-treesitter-impl-merger/x/java"
)

// Version 在构建时通过 -ldflags 注入
var Version = "0.1.0-dev"

// rootOptions 是全局 flag
type rootOptions struct {
	cfgFile  string
	debug    bool
	logLevel string
	target   string
	suffix   string
	git      bool

	stdout io.Writer
	stderr io.Writer
}

// NewRootCommand 构建 implmerge 命令树
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:   "implmerge",
		Short: "Merge Java <Name>Impl classes into their interfaces",
		Long: `implmerge folds a Java interface and its single implementing class into one class.

For every interface method it either keeps the class's implementation (copying the
interface documentation above it) or copies the interface's default method into the
class. Package and import declarations are rewritten, @Override / default / implements
syntax is normalized, and the interface file is deleted.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default is ./.implmerge.yaml or $HOME/.config/implmerge/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "debug output")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&opts.target, "target", "", "where the merged class is written (class, interface)")
	rootCmd.PersistentFlags().StringVar(&opts.suffix, "suffix", "", "implementation class name suffix (default Impl)")
	rootCmd.PersistentFlags().BoolVar(&opts.git, "git", false, "stage changes in the enclosing git repository")

	rootCmd.AddCommand(newMergeCommand(opts))
	rootCmd.AddCommand(newMCPCommand(opts))
	rootCmd.AddCommand(newVersionCommand(opts))
	return rootCmd
}

// Execute 运行命令行，出错时以非零状态退出
func Execute() {
	if err := NewRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig 加载配置并应用命令行覆盖
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.NewLoader(o.cfgFile).LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	if o.debug {
		cfg.Logging.Level = "debug"
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.target != "" {
		cfg.Target = o.target
	}
	if o.suffix != "" {
		cfg.Suffix = o.suffix
	}
	if cmd.Flags().Changed("git") {
		cfg.Git = o.git
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, cfg.NewLogger(o.stderr), nil
}

func newVersionCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(opts.stdout, "implmerge %s\n", Version)
		},
	}
}
