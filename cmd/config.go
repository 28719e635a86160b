package main

import "time"

type Config struct {
	BufferSize      int           `env:"BUFFER_SIZE,required=true"`
	LimitMessages   *int          `env:"LIMIT_MESSAGES"`
	SinkTimeout     time.Duration `env:"SINK_TIMEOUT,required=true"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,required=true"`
	HTTPTimeout     time.Duration `env:"HTTP_TIMEOUT,default=30s"`
	BadgerFilepath  string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel        string        `env:"LOG_LEVEL,required=true"`
	DebugPort       int           `env:"DEBUG_PORT,default=8085"`

	AIChatbotURL    string `env:"AI_CHATBOT_URL,required=true"`
	ChatServiceURL  string `env:"CHAT_SERVICE_URL,required=true"`
	ScoreServiceURL string `env:"SCORE_SERVICE_URL,required=true"`
	SignalURL       string `env:"SIGNAL_URL,required=true"`

	ConversationID string `env:"CONVERSATION_ID,required=true"`
	UserID         string `env:"USER_ID,required=true"`
	UserEmail      string `env:"USER_EMAIL,required=true"`
	UserGender     string `env:"USER_GENDER"`

	SoundCommand string `env:"SOUND_COMMAND"`
}
