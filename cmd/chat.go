package cmd

import (
	"fmt"

	"github.com/matheuskafuri/newstalk/internal/chat"
	"github.com/matheuskafuri/newstalk/internal/config"
	"github.com/matheuskafuri/newstalk/internal/keywords"
	"github.com/matheuskafuri/newstalk/internal/relay"
	"github.com/matheuskafuri/newstalk/internal/session"
	"github.com/matheuskafuri/newstalk/internal/synth"
	"github.com/matheuskafuri/newstalk/internal/tui"
	"github.com/spf13/cobra"
)

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if !cfg.AIEnabled() {
		return fmt.Errorf("no AI key configured: set ai.api_key in %s or export NEWSTALK_AI_KEY", config.DefaultConfigPath())
	}

	synthesizer, err := synth.New(cfg.AI, cfg.AIKey())
	if err != nil {
		return fmt.Errorf("configuring synthesis: %w", err)
	}

	var fetcher chat.Fetcher
	if cfg.Relay.URL != "" {
		fetcher = relay.NewClient(cfg.Relay.URL)
	} else {
		fetcher = relay.NewDirect()
	}

	words := keywords.Load(cfg.KeywordsPath())
	keywords.Shuffle(words)

	store := session.NewStore()
	pipe := chat.New(store, fetcher, synthesizer, cfg.FeedURLTemplate())

	return tui.Run(tui.RunOpts{
		Pipeline: pipe,
		Store:    store,
		Keywords: words,
	})
}
