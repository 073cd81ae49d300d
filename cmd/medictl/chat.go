package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	grpcapi "medi-response-service/internal/api/grpc"
	"medi-response-service/internal/app"
	"medi-response-service/internal/service/dialogue"
	"medi-response-service/internal/service/exchange"
	"medi-response-service/internal/service/stt"
)

// sessionResponder keeps the server-assigned session id across turns.
type sessionResponder struct {
	call      func(ctx context.Context, prompt string, maxLength int, sessionID string) (reply, session string, err error)
	sessionID string
}

func (r *sessionResponder) Respond(ctx context.Context, prompt string, maxLength int) (string, error) {
	reply, session, err := r.call(ctx, prompt, maxLength, r.sessionID)
	if err != nil {
		return "", err
	}
	r.sessionID = session
	return reply, nil
}

func newChatCmd(appFn func() *app.Application) *cobra.Command {
	var (
		server  string
		audio   bool
		turns   int
		history bool
	)
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to a simulated relative as the doctor",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFn()
			ctx := cmd.Context()

			responder, closeFn, err := chatResponder(ctx, a, server)
			if err != nil {
				return err
			}
			defer closeFn()

			var transcriber stt.Transcriber
			if audio {
				if transcriber, err = a.NewTranscriber(ctx); err != nil {
					return err
				}
			}

			sc, err := a.Scenario()
			if err != nil {
				return err
			}
			if turns <= 0 {
				turns = a.Cfg.Dialogue.Turns
			}
			sess := dialogue.New("", sc, responder, dialogue.Options{
				Turns:       turns,
				MaxLength:   a.Cfg.Generator.MaxLength,
				KeepHistory: history,
			})

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, sc.Setting())
			if bg := sc.Background(); bg != "" {
				fmt.Fprintln(out, bg)
			}
			opening, err := sess.Open(ctx)
			if err != nil {
				return err
			}
			sess.ID = responder.sessionID
			fmt.Fprintf(out, "Doctor: %s\nRelative: %s\n", opening.Doctor, opening.Relative)

			in := bufio.NewScanner(cmd.InOrStdin())
			for !sess.Done() {
				if audio {
					fmt.Fprint(out, "WAV file: ")
				} else {
					fmt.Fprint(out, "Doctor (You): ")
				}
				if !in.Scan() {
					break
				}
				line := strings.TrimSpace(in.Text())
				if line == "" {
					continue
				}
				if audio {
					if line, err = transcribeFile(ctx, transcriber, line); err != nil {
						fmt.Fprintf(out, "could not transcribe: %v\n", err)
						continue
					}
					fmt.Fprintf(out, "Doctor: %s\n", line)
				}
				ex, err := sess.Reply(ctx, line)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Relative: %s\n", ex.Relative)
			}
			if sess.ID != "" {
				fmt.Fprintf(out, "session %s\n", sess.ID)
			}
			return in.Err()
		},
	}
	cmd.Flags().StringVar(&server, "server", "", "gRPC address of a running service (default: run locally)")
	cmd.Flags().BoolVar(&audio, "audio", false, "read doctor lines as WAV file paths and transcribe them")
	cmd.Flags().IntVar(&turns, "turns", 0, "doctor lines after the opening (0 uses the configured default)")
	cmd.Flags().BoolVar(&history, "history", false, "include earlier exchanges in each prompt")
	return cmd
}

// chatResponder answers through a remote service when server is set and
// through a local, recorded pipeline otherwise.
func chatResponder(ctx context.Context, a *app.Application, server string) (*sessionResponder, func(), error) {
	if server != "" {
		conn, err := grpc.NewClient(server, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return nil, nil, err
		}
		client := grpcapi.NewClient(conn)
		return &sessionResponder{
			call: func(ctx context.Context, prompt string, maxLength int, sessionID string) (string, string, error) {
				r, err := client.Respond(ctx, prompt, maxLength, sessionID)
				if err != nil {
					return "", "", err
				}
				return r.Response, r.SessionID, nil
			},
		}, func() { conn.Close() }, nil
	}

	svc, err := a.NewResponseService(ctx)
	if err != nil {
		return nil, nil, err
	}
	cfg := exchange.Config{
		Responder: svc,
		Publisher: a.NewPublisher(),
		Provider:  a.Cfg.Generator.Provider,
		MaxLength: a.Cfg.Generator.MaxLength,
		Metrics:   a.Metrics,
	}
	db, err := a.OpenStore()
	if err != nil {
		return nil, nil, err
	}
	if db != nil {
		cfg.Store = db
	}
	h := exchange.New(cfg)
	return &sessionResponder{
		call: func(ctx context.Context, prompt string, maxLength int, sessionID string) (string, string, error) {
			r, err := h.Handle(ctx, exchange.Request{Prompt: prompt, MaxLength: maxLength, SessionID: sessionID})
			if err != nil {
				return "", "", err
			}
			return r.Response, r.SessionID, nil
		},
	}, func() {}, nil
}

func transcribeFile(ctx context.Context, t stt.Transcriber, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	w, err := stt.ReadWAV(f)
	if err != nil {
		return "", err
	}
	return t.Transcribe(ctx, w.PCM, w.SampleRateHz)
}
