package card

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hunterjsb/leaguecard/internal/imagegen"
	"github.com/hunterjsb/leaguecard/internal/metrics"
	"github.com/hunterjsb/leaguecard/internal/postprocess"
)

// Pipeline stage names, used as the metrics stage label.
const (
	StageAccount     = "account"
	StageAggregate   = "aggregate"
	StagePrompt      = "prompt"
	StageGenerate    = "generate"
	StagePostprocess = "postprocess"
)

// Card is a finished player card.
type Card struct {
	Summary *Summary
	Prompt  string
	// Image is the post-processed JPEG.
	Image []byte
}

// Service runs the whole card pipeline for one player.
type Service struct {
	Aggregator *Aggregator
	Generator  imagegen.Generator
	Image      imagegen.Options
	// OutputWidth and Quality control the final JPEG; zero means the
	// postprocess defaults.
	OutputWidth int
	Quality     int
	Metrics     *metrics.Collectors
	Logger      *zap.Logger
}

func (s *Service) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// Create resolves the account, aggregates its data, builds the prompt,
// generates the image and shrinks it. The first failing stage aborts the
// pipeline and its error is returned unchanged.
func (s *Service) Create(ctx context.Context, gameName, tagLine string) (*Card, error) {
	log := s.logger().With(zap.String("game_name", gameName), zap.String("tag_line", tagLine))

	var card Card
	err := s.stage(StageAccount, func() error {
		account, err := s.Aggregator.Riot.GetAccountByRiotID(ctx, gameName, tagLine)
		if err != nil {
			return err
		}
		card.Summary = &Summary{Account: *account}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log = log.With(zap.String("puuid", card.Summary.Account.PUUID))

	err = s.stage(StageAggregate, func() error {
		summary, err := s.Aggregator.Summarize(ctx, &card.Summary.Account)
		if err != nil {
			return err
		}
		card.Summary = summary
		return nil
	})
	if err != nil {
		return nil, err
	}

	start := time.Now()
	card.Prompt = BuildPrompt(*card.Summary)
	s.Metrics.Stage(StagePrompt, time.Since(start))
	log.Debug("prompt built",
		zap.Int("champions", len(card.Summary.Champions)),
		zap.Int("ranked", len(card.Summary.Ranked)),
		zap.Int("matches", len(card.Summary.Matches)),
		zap.Int("prompt_len", len(card.Prompt)),
	)

	var raw []byte
	err = s.stage(StageGenerate, func() error {
		img, err := s.Generator.Generate(ctx, imagegen.NewRequest(card.Prompt, s.imageOptions()))
		if err != nil {
			return fmt.Errorf("generate card image: %w", err)
		}
		raw = img
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = s.stage(StagePostprocess, func() error {
		img, err := postprocess.Resize(raw, s.OutputWidth, s.Quality)
		if err != nil {
			return fmt.Errorf("post-process card image: %w", err)
		}
		card.Image = img
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("card created", zap.Int("bytes", len(card.Image)))
	return &card, nil
}

func (s *Service) imageOptions() imagegen.Options {
	opts := s.Image
	def := imagegen.DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.CFGScale <= 0 {
		opts.CFGScale = def.CFGScale
	}
	if opts.NegativePrompt == "" {
		opts.NegativePrompt = def.NegativePrompt
	}
	return opts
}

func (s *Service) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	s.Metrics.Stage(name, time.Since(start))
	return err
}
