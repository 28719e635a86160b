package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"affinity-engine/ai"
	"affinity-engine/domain"
	domainevent "affinity-engine/domain/event"
	"affinity-engine/infrastructure/sound"
	"affinity-engine/infrastructure/ws"
	"affinity-engine/internal"
	"affinity-engine/observability"
	"affinity-engine/projection"
	"affinity-engine/repositories"
	"affinity-engine/runtime"
	"affinity-engine/runtime/workers"
	"affinity-engine/services"
	"affinity-engine/sink"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the engine lifecycle, and centralizes error reporting.
// This pattern is preferred over calling os.Exit or panic directly because:
// 1. It ensures all 'defer' statements (like database cleanup) are executed before the program exits.
// 2. It improves testability by decoupling the initialization logic from the main entry point.
// 3. It provides a structured way to handle graceful shutdowns for background workers.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB message mirror)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.INFO))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. External collaborators
	chatService := repositories.NewChatServiceClient(config.ChatServiceURL, config.HTTPTimeout)
	bridge := ai.NewBridge(config.AIChatbotURL, config.HTTPTimeout)
	scoreClient := repositories.NewScoreClient(config.ScoreServiceURL, config.HTTPTimeout)
	channel := ws.NewChannel(log, config.SignalURL)
	notifier := sound.NewNotifier(config.SoundCommand)

	// 4. Store, sinks, fanout
	messageRepository := repositories.NewMessageRepository(db, log, config.LimitMessages)
	metrics := observability.NewSessionMetrics()
	timeline := projection.NewTimeline()

	store := runtime.NewStore(log)
	store.RegisterSinks(sink.NewDiskSink(messageRepository, log), timeline, metrics)

	events := make(chan domainevent.DomainEvent, config.BufferSize)
	fanout := workers.NewEventFanout(log, events, config.SinkTimeout, metrics)

	// 5. Supervision
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(fanout, channel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sup.Run(ctx)

	// 6. The active session
	session := runtime.Session{
		Conversation: domain.NewAIConversation(domain.ConversationID(config.ConversationID), config.UserID),
		Profile: domain.Profile{
			UserID: config.UserID,
			Email:  config.UserEmail,
			Gender: config.UserGender,
		},
	}

	// Post-scoring navigation is caller policy, so it lives here and
	// not inside the engine.
	route := func(profile domain.Profile) domain.Destination {
		if profile.Gender == "Female" {
			return domain.DestinationDashboard
		}
		return domain.DestinationRequest
	}

	coordinator := runtime.NewSessionCoordinator(
		ctx, log, store, chatService, bridge, scoreClient, notifier, route, events, session)
	room := runtime.NewRoomCoordinator(log, channel, events, func(roomID domain.RoomID) {
		log.Info("Navigate to video room", "room", roomID)
	})
	presence := runtime.NewPresenceTracker(log, events)

	service := services.NewSessionService(log, coordinator, room, presence, store, session)
	if err := service.Open(ctx, chatService, channel); err != nil {
		log.Warn("Session opened without remote history", "error", err)
	}
	defer service.Close()

	// 7. Debug inspector
	internal.StartDebugServer(db, config.DebugPort, nil, func() map[string]any {
		snapshot := metrics.Snapshot()
		return map[string]any{
			"messages_appended": snapshot.MessagesAppended,
			"scores_persisted":  snapshot.ScoresPersisted,
			"scores_rejected":   snapshot.ScoresRejected,
			"send_failures":     snapshot.SendFailures,
		}
	})
	log.Info("Engine running", "conversation", config.ConversationID, "inspector_port", config.DebugPort)

	// 8. Interactive loop: stdin lines become sends, until EOF or signal
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info("Shutting down gracefully...")
			sup.Stop()
			return nil
		case line, ok := <-lines:
			if !ok {
				log.Info("Input closed, stopping")
				sup.Stop()
				return nil
			}
			if line == "/call" {
				if err := service.StartVideoCall(); err != nil {
					log.Warn("Unable to start video call", "error", err)
				}
				continue
			}
			destination, err := service.SendMessage(ctx, line)
			if err != nil {
				log.Error("Send failed", "error", err)
				continue
			}
			last := service.Messages(session.Conversation.ID)
			if len(last) > 0 {
				log.Info("Reply", "text", last[len(last)-1].Text)
			}
			if destination != "" {
				log.Info("Navigate", "destination", destination)
			}
		}
	}
}
