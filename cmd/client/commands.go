package main

import (
	"cmp"
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atinyakov/lumina/internal/client"
	"github.com/atinyakov/lumina/internal/client/prompt"
	"github.com/atinyakov/lumina/internal/client/remote"
	"github.com/atinyakov/lumina/internal/config"
	"github.com/atinyakov/lumina/internal/gate"
	"github.com/atinyakov/lumina/internal/logger"
	"github.com/atinyakov/lumina/internal/models"
)

const maxLoginAttempts = 3

type app struct {
	configPath string
	logLevel   string

	opts *config.Options
	log  *logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "lumina",
		Short:         "Lumina admin tools",
		Version:       fmt.Sprintf("%s (built %s)", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A")),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "generate" {
				return nil
			}
			return a.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override log.level")

	root.AddCommand(a.loginCmd(), a.statusCmd(), a.uploadCmd(), configCmd())
	return root
}

func (a *app) setup() error {
	opts, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		opts.Log.Level = a.logLevel
	}
	a.log = logger.New()
	if err := a.log.Init(opts.Log); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.opts = opts
	return nil
}

func (a *app) backend() (*client.Backend, error) {
	return client.Select(a.opts, a.log.Log)
}

// login runs the gate against b until it authenticates.
func (a *app) login(ctx context.Context, b *client.Backend) error {
	g := b.NewGate(gate.Options{
		Logger: a.log.Log,
		OnShake: func(on bool) {
			if on {
				fmt.Fprint(os.Stderr, "\a")
			}
		},
		OnSuccess: func() {
			a.log.Log.Info("admin authenticated", zap.String("backend", string(b.Kind)))
		},
	})
	return prompt.Run(ctx, g, prompt.New(os.Stdin, os.Stdout), maxLoginAttempts)
}

func (a *app) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Set up or enter the admin password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := a.backend()
			if err != nil {
				return err
			}
			defer b.Close()

			if err := a.login(cmd.Context(), b); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Authenticated.")
			return nil
		},
	}
}

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which backend holds the admin password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := a.backend()
			if err != nil {
				return err
			}
			defer b.Close()

			exists, err := b.Credentials.Exists(cmd.Context())
			if err != nil {
				a.log.Log.Warn("credential check failed", zap.Error(err))
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Backend:  %s\n", b.Kind.Label())
			if b.Kind == models.RemoteBackend {
				fmt.Fprintf(out, "Endpoint: %s\n", a.opts.Remote.URL)
			} else {
				fmt.Fprintf(out, "Storage:  %s (%s)\n", a.opts.Local.Path, a.opts.Local.Driver)
			}
			fmt.Fprintf(out, "Mode:     %s\n", models.ModeFor(exists))
			return nil
		},
	}
}

func (a *app) uploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload an image and print its public URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			contentType := http.DetectContentType(data)

			b, err := a.backend()
			if err != nil {
				return err
			}
			defer b.Close()

			if err := a.login(cmd.Context(), b); err != nil {
				return err
			}

			url, err := b.Assets.UploadAsset(cmd.Context(), remote.EncodeDataURL(contentType, data))
			if err != nil {
				return err
			}
			if !b.Assets.Configured() {
				a.log.Log.Info("no remote service configured, printing data URL")
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
}

func configCmd() *cobra.Command {
	var (
		output    string
		overwrite bool
	)
	cfg := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}
	gen := &cobra.Command{
		Use:   "generate",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			written, err := config.WriteTemplate(output, overwrite)
			if err != nil {
				return err
			}
			if !written {
				fmt.Fprintf(cmd.OutOrStdout(), "%s exists, use --overwrite to replace it\n", output)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return nil
		},
	}
	gen.Flags().StringVarP(&output, "output", "o", "config.yaml", "destination path")
	gen.Flags().BoolVar(&overwrite, "overwrite", false, "replace an existing file")
	cfg.AddCommand(gen)
	return cfg
}
