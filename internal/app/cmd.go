package app

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Command はアプリケーションの起動モードを表す。
type Command string

const (
	// CommandServe はAPIサーバーモードで起動することを示す。
	CommandServe Command = "serve"
	// CommandMigrate はデータベースマイグレーションを実行することを示す。
	CommandMigrate Command = "migrate"
	// CommandHealthcheck はヘルスチェックを実行することを示す。
	// distroless環境でのDockerヘルスチェック用。
	CommandHealthcheck Command = "healthcheck"
)

// rootOptions は全サブコマンド共通のフラグ。
type rootOptions struct {
	envFile string
}

// Run はアプリケーションのメインエントリーポイント。
// argsにはos.Args[1:]を渡す。サブコマンドを省略した場合はserveとして起動する。
func Run(w io.Writer, args []string) error {
	cmd := NewRootCommand(w)
	cmd.SetArgs(args)
	return cmd.Execute()
}

// NewRootCommand はprofilebookのルートコマンドを生成する。
func NewRootCommand(w io.Writer) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "profilebook",
		Short:         "Person / group / post collection API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(w, opts)
		},
	}
	cmd.SetOut(w)
	cmd.SetErr(w)

	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	cmd.AddCommand(newServeCommand(w, opts))
	cmd.AddCommand(newMigrateCommand(w, opts))
	cmd.AddCommand(newHealthcheckCommand())

	return cmd
}

func newServeCommand(w io.Writer, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   string(CommandServe),
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(w, opts)
		},
	}
}

func newMigrateCommand(w io.Writer, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   string(CommandMigrate),
		Short: "Apply all pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := Init(w, opts.envFile)
			if err != nil {
				return err
			}
			return runMigrate(cfg)
		},
	}
}

// newHealthcheckCommand はフル初期化をスキップする軽量サブコマンドを生成する。
func newHealthcheckCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   string(CommandHealthcheck),
		Short: "Probe the running server's /health endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHealthcheck(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultHealthcheckAddr(), "base URL of the server to probe")
	return cmd
}

func serve(w io.Writer, opts *rootOptions) error {
	cfg, err := Init(w, opts.envFile)
	if err != nil {
		return err
	}
	return runServe(cfg)
}

func defaultHealthcheckAddr() string {
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}
	return "http://localhost:" + port
}
