package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"gwi.com/answer-bubbles/internal/api"
	"gwi.com/answer-bubbles/internal/config"
	"gwi.com/answer-bubbles/internal/core"
	"gwi.com/answer-bubbles/internal/render"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), config.AppConfig)
			if err != nil {
				return err
			}
			defer a.Close()

			router := api.NewRouter(api.NewAPIHandler(a.pipeline))
			serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)

			srv := &http.Server{
				Addr:         serverAddr,
				Handler:      router,
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 60 * time.Second, // generation can be slow
				IdleTimeout:  120 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", serverAddr).Msg("Starting server. Press Ctrl+C to quit.")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- errors.Wrapf(err, "could not listen on %s", serverAddr)
				}
				close(errCh)
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			select {
			case err := <-errCh:
				return err
			case <-quit:
			}
			log.Info().Msg("Shutting down server...")

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				return errors.Wrap(err, "server forced to shutdown")
			}
			log.Info().Msg("Server exiting gracefully")
			return nil
		},
	}
}

func newAskCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask one question and print the answer bubbles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), config.AppConfig)
			if err != nil {
				return err
			}
			defer a.Close()

			out := a.pipeline.Submit(cmd.Context(), strings.Join(args, " "))
			if errors.Is(out.Err, core.ErrEmptyQuestion) {
				return out.Err
			}
			render.New(cmd.OutOrStdout(), 0).Turns(a.pipeline.Conversation().All())
			if out.Err != nil {
				return errors.New(a.pipeline.FailureMessage())
			}
			return nil
		},
	}
}

func newChatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive session; !N re-asks history item N, /history, /clear, /reset, /quit",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), config.AppConfig)
			if err != nil {
				return err
			}
			defer a.Close()

			return runChat(cmd.Context(), a.pipeline, cmd.InOrStdin(), render.New(cmd.OutOrStdout(), 0))
		},
	}
}

func runChat(ctx context.Context, p *core.QueryPipeline, in io.Reader, r *render.Renderer) error {
	r.EmptyConversation()
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "/quit":
			return nil
		case trimmed == "/history":
			r.History(p.History().Snapshot())
			continue
		case trimmed == "/clear":
			if err := p.History().Clear(ctx); err != nil {
				log.Error().Err(err).Msg("Error clearing history")
			}
			continue
		case trimmed == "/reset":
			p.Conversation().Reset()
			r.EmptyConversation()
			continue
		case strings.HasPrefix(trimmed, "!"):
			n, err := strconv.Atoi(strings.TrimPrefix(trimmed, "!"))
			entries := p.History().Snapshot()
			if err != nil || n < 1 || n > len(entries) {
				r.History(entries)
				continue
			}
			line = entries[n-1]
		}

		before := p.Conversation().Len()
		p.Submit(ctx, line)
		r.Turns(p.Conversation().Since(before))
	}
	return scanner.Err()
}

func newHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect or clear the recent searches",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List recent searches, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), config.AppConfig)
			if err != nil {
				return err
			}
			defer a.Close()
			render.New(cmd.OutOrStdout(), 0).History(a.pipeline.History().Snapshot())
			return nil
		},
	}, &cobra.Command{
		Use:   "clear",
		Short: "Erase all recent searches",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), config.AppConfig)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.pipeline.History().Clear(cmd.Context())
		},
	})
	return cmd
}
