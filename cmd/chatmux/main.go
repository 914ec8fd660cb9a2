package main

import (
	"math/rand"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/go-go-golems/chatmux/pkg/chatmux"
	"github.com/go-go-golems/chatmux/pkg/ordered"
	"github.com/go-go-golems/chatmux/pkg/protocol"
)

var (
	logLevel   string
	configPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "chatmux",
		Short: "Session-multiplexing chat client core",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log.Logger = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()
			level, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return errors.Wrap(err, "parse log level")
			}
			zerolog.SetGlobalLevel(level)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "zerolog level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML options file")

	rootCmd.AddCommand(newProbeCommand())
	rootCmd.AddCommand(newVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the library version",
		Run: func(cmd *cobra.Command, args []string) {
			version := protocol.Execute(&protocol.GetVersion{}).(*protocol.Version)
			cmd.Println(version.Value)
		},
	}
}

func newProbeCommand() *cobra.Command {
	var (
		sessions int
		messages int
	)

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Flood the multiplexer with out-of-order message traffic and verify the drain",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := chatmux.Options{}
			if configPath != "" {
				var err error
				opts, err = chatmux.LoadOptions(configPath)
				if err != nil {
					return err
				}
			}

			m := chatmux.NewManager(opts)
			start := time.Now()

			var g errgroup.Group
			for i := 0; i < sessions; i++ {
				seed := int64(i + 1)
				g.Go(func() error {
					id := m.CreateSession()
					rng := rand.New(rand.NewSource(seed))
					order := rng.Perm(messages)
					for j, k := range order {
						m.Send(id, protocol.RequestID(j+1), &protocol.AddMessage{
							ConversationID: seed,
							MessageID:      ordered.MessageID(k + 1),
							Date:           time.Now().Unix(),
						})
					}
					return nil
				})
			}

			expected := sessions * messages
			received := 0
			failed := 0
			for received < expected {
				resp := m.Receive(5 * time.Second)
				if resp.IsTimeout() {
					return errors.Errorf("drain stalled after %d of %d responses", received, expected)
				}
				if resp.IsSessionClosed() {
					continue
				}
				if _, ok := resp.Result.(*protocol.Error); ok {
					failed++
				}
				received++
			}
			if err := g.Wait(); err != nil {
				return err
			}
			m.Close()

			log.Info().
				Int("sessions", sessions).
				Int("responses", received).
				Int("errors", failed).
				Dur("elapsed", time.Since(start)).
				Msg("probe finished")
			return nil
		},
	}

	cmd.Flags().IntVar(&sessions, "sessions", 8, "number of concurrent sessions")
	cmd.Flags().IntVar(&messages, "messages", 1000, "messages per session")
	return cmd
}
