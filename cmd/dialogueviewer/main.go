// Command dialogueviewer shows dialogue turns live: it consumes the response
// topics from Kafka and pushes each event to browsers over WebSocket.
package main

import (
	"context"
	"embed"
	"flag"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"medi-response-service/internal/observability/logging"
)

//go:embed static/*
var staticFiles embed.FS

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

func consumeKafka(ctx context.Context, hub *Hub, brokers []string, topic string, since time.Duration) {
	// Partition reader without consumer group (works better through port-forward)
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   brokers,
		Topic:     topic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
	})
	defer reader.Close()

	if err := reader.SetOffsetAt(ctx, time.Now().Add(-since)); err != nil {
		log.Warn().Err(err).Str("topic", topic).Msg("Could not seek, reading from the start")
	}
	log.Info().Str("topic", topic).Dur("since", since).Msg("Consuming from Kafka")

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Err(err).Str("topic", topic).Msg("Kafka read error")
			time.Sleep(time.Second)
			continue
		}

		var eventType string
		for _, h := range msg.Headers {
			if h.Key == "eventType" {
				eventType = string(h.Value)
			}
		}
		event, err := decodeEvent(eventType, msg.Value)
		if err != nil {
			log.Warn().Err(err).Str("topic", topic).Msg("Skipping message")
			continue
		}

		log.Debug().
			Str("eventType", event.EventType).
			Str("turnId", event.TurnID).
			Str("text", truncate(event.Response+event.Raw, 40)).
			Msg("Received event")
		select {
		case hub.broadcast <- event:
		case <-ctx.Done():
			return
		}
	}
}

func main() {
	port := flag.String("port", "8081", "HTTP server port")
	brokers := flag.String("brokers", "localhost:9092", "Kafka brokers (comma-separated)")
	topicRaw := flag.String("topic-raw", "dialogue.generation.raw", "Raw generation topic (empty to skip)")
	topicFinal := flag.String("topic-final", "dialogue.response.final", "Final response topic")
	since := flag.Duration("since", time.Hour, "How far back to replay on start")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	lc := logging.DefaultConfig()
	lc.Level = *logLevel
	lc.Format = "console"
	logging.Init(lc)

	hub := newHub()
	go hub.run()
	defer hub.stop()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	brokerList := strings.Split(*brokers, ",")
	go consumeKafka(ctx, hub, brokerList, *topicFinal, *since)
	if *topicRaw != "" {
		go consumeKafka(ctx, hub, brokerList, *topicRaw, *since)
	}

	staticFS, _ := fs.Sub(staticFiles, "static")
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.FS(staticFS)))
	mux.HandleFunc("/ws", wsHandler(hub))

	srv := &http.Server{Addr: ":" + *port, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info().
		Str("url", "http://localhost:"+*port).
		Strs("brokers", brokerList).
		Str("topicFinal", *topicFinal).
		Str("topicRaw", *topicRaw).
		Msg("Dialogue viewer starting")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Server error")
	}
}
