package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/machadoadv/lawsite/internal/core/auth"
	"github.com/machadoadv/lawsite/internal/core/domain"
	"github.com/machadoadv/lawsite/internal/shell/posts"
	"github.com/machadoadv/lawsite/internal/shell/seed"
)

// Version information (set by build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout)
	root.SetArgs(args)
	root.SetErr(stderr)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitCode(err, ExitConfigError)
	}
	return ExitSuccess
}

// =============================================================================
// Commands
// =============================================================================

func newRootCmd(out io.Writer) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "lawsite",
		Short:         "API server for the firm's website",
		Long:          "lawsite serves the blog and contact API of the firm's website.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")

	root.AddCommand(
		newServeCmd(&configPath),
		newSeedCmd(&configPath),
		newSlugCmd(),
		newTokenCmd(&configPath),
		newVersionCmd(),
	)
	return root
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(*configPath)
			if err != nil {
				return &ServerError{Op: "LoadConfig", Err: err, ExitCode: ExitConfigError}
			}

			logger := SetupLogger(cfg)
			logger.Info("starting lawsite",
				"version", Version,
				"config", *configPath,
			)

			ctx := cmd.Context()
			server, err := NewServer(ctx, cfg, logger)
			if err != nil {
				logger.Error("failed to create server", "error", err)
				return err
			}

			if err := server.Start(ctx); err != nil {
				logger.Error("server error", "error", err)
				return err
			}
			return nil
		},
	}
}

func newSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Create the posts listed in a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(*configPath)
			if err != nil {
				return &ServerError{Op: "LoadConfig", Err: err, ExitCode: ExitConfigError}
			}

			f, err := seed.LoadFile(args[0])
			if err != nil {
				return &ServerError{Op: "seed", Err: err, ExitCode: ExitConfigError}
			}

			ctx := cmd.Context()
			s, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			created, err := seed.Apply(ctx, posts.NewService(s, posts.WithLogger(SetupLogger(cfg))), f)
			for _, p := range created {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", p.ID, p.Slug)
			}
			if err != nil {
				return &ServerError{Op: "seed", Err: err, ExitCode: ExitDatabaseError}
			}
			return nil
		},
	}
}

func newSlugCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "slug <title>",
		Short: "Print the slug a title normalizes to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := domain.NormalizeSlug(strings.Join(args, " "))
			if slug == "" {
				return fmt.Errorf("title %q has no characters usable in a slug", strings.Join(args, " "))
			}
			fmt.Fprintln(cmd.OutOrStdout(), slug)
			return nil
		},
	}
}

func newTokenCmd(configPath *string) *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a session token with auth.jwt_secret (development)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(*configPath)
			if err != nil {
				return &ServerError{Op: "LoadConfig", Err: err, ExitCode: ExitConfigError}
			}
			verifier, err := auth.NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
			if err != nil {
				return &ServerError{Op: "token", Err: err, ExitCode: ExitConfigError}
			}
			token, err := verifier.Sign(subject, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "dev-admin", "Token subject")
	cmd.Flags().StringVar(&role, "role", auth.RoleAdmin, "Role claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and exit",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lawsite %s (built %s)\n", Version, BuildTime)
		},
	}
}
