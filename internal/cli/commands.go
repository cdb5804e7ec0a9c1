package cli

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"qabot/internal/repl"
	"qabot/internal/server"
	"qabot/internal/textnorm"
	"qabot/internal/tui"
)

func newChatCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive chat window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, opts)
		},
	}
}

func runChat(cmd *cobra.Command, opts *rootOptions) error {
	_, log, bot, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	m := tui.New(bot, "TF-IDF Chatbot")
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
	return err
}

func newREPLCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Line-based chat on stdin/stdout; type 'exit' to quit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, bot, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			fmt.Fprintln(cmd.OutOrStdout(), "Chatbot is ready! (Type 'exit' to quit)")
			fmt.Fprintln(cmd.OutOrStdout())
			return repl.Run(cmd.Context(), bot, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func newAskCommand(opts *rootOptions) *cobra.Command {
	var showMatch bool
	cmd := &cobra.Command{
		Use:   "ask <message...>",
		Short: "Answer a single message and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, bot, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			m := bot.Match(strings.Join(args, " "))
			if showMatch {
				fmt.Fprintf(cmd.OutOrStdout(), "#%d score=%.4f question=%q\n", m.Index, m.Score, m.Question)
			}
			fmt.Fprintln(cmd.OutOrStdout(), m.Answer)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showMatch, "show-match", false, "print the matched row and its similarity")
	return cmd
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chatbot over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, bot, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.NewServer(bot, &cfg.Server, log)
			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			log.Info("Shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Stop(shutdownCtx); err != nil {
				log.Error("shutdown failed", zap.Error(err))
				return err
			}
			return <-errCh
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")
	return cmd
}

func newNormalizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <text...>",
		Short: "Print text as the matcher sees it",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), textnorm.Normalize(strings.Join(args, " ")))
		},
	}
}
