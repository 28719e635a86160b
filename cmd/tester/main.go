// Command tester smoke-tests the external collaborators of the engine
// (AI endpoint and score service) against a live deployment.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"affinity-engine/ai"
	"affinity-engine/repositories"

	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	AIChatbotURL    string        `envconfig:"AI_CHATBOT_URL" required:"true"`
	ScoreServiceURL string        `envconfig:"SCORE_SERVICE_URL" required:"true"`
	UserID          string        `envconfig:"USER_ID" default:"tester"`
	UserEmail       string        `envconfig:"USER_EMAIL" default:"tester@example.com"`
	Timeout         time.Duration `envconfig:"TIMEOUT" default:"30s"`
	Colours         bool          `envconfig:"COLOURS" default:"true"`
}

func main() {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("config error: %v", err)
	}

	header := func(text string) {
		line := fmt.Sprintf("  ====== %s ======", text)
		if cfg.Colours {
			line = color.New(color.BgBlack, color.FgGreen).Render(line)
		}
		fmt.Println(line)
	}
	failure := func(text string) {
		if cfg.Colours {
			text = color.New(color.FgRed).Render(text)
		}
		fmt.Println(text)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	header("AI inference endpoint")
	bridge := ai.NewBridge(cfg.AIChatbotURL, cfg.Timeout)
	reply, err := bridge.Infer(ctx, cfg.UserID, "hello")
	if err != nil {
		failure(fmt.Sprintf("inference failed: %v", err))
	} else {
		fmt.Printf("reply: %q scored=%v\n", reply.Text, reply.Scored())
	}

	header("Score persistence service")
	scoreClient := repositories.NewScoreClient(cfg.ScoreServiceURL, cfg.Timeout)
	if err := scoreClient.Update(ctx, cfg.UserEmail, 50); err != nil {
		failure(fmt.Sprintf("score update failed: %v", err))
	} else {
		fmt.Println("score update accepted")
	}
}
