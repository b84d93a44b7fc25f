// Package scorer ranks companies against a fixed outreach-relevance rubric.
package scorer

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/venturescout/outreach-cli/internal/config"
	"github.com/venturescout/outreach-cli/internal/model"
)

// Store is the persistence surface the scorer needs.
type Store interface {
	ListScorable(ctx context.Context) ([]model.Company, error)
	UpdateRelevanceScore(ctx context.Context, id int64, score int) error
}

// Scorer computes relevance scores from weighted keyword and profile checks.
type Scorer struct {
	cfg config.ScorerConfig
}

// New creates a scorer from config, filling in default keyword lists and
// weights for anything left unset.
func New(cfg config.ScorerConfig) *Scorer {
	if cfg.AIWeight == 0 {
		cfg.AIWeight = 30
	}
	if cfg.HiringWeight == 0 {
		cfg.HiringWeight = 20
	}
	if cfg.LocationWeight == 0 {
		cfg.LocationWeight = 15
	}
	if cfg.TeamSizeWeight == 0 {
		cfg.TeamSizeWeight = 10
	}
	if cfg.InfraWeight == 0 {
		cfg.InfraWeight = 5
	}
	if len(cfg.AIKeywords) == 0 {
		cfg.AIKeywords = []string{
			"artificial intelligence", "machine learning", "deep learning", "nlp",
			"natural language", "llm", "large language model", "computer vision",
			"neural network", "generative ai", "\"ai\"", " ai ", " ai,", " ml ",
			"ai-", "ml-", "ai/ml",
		}
	}
	if len(cfg.LocationKeywords) == 0 {
		cfg.LocationKeywords = []string{"nyc", "new york", "remote"}
	}
	if len(cfg.InfraKeywords) == 0 {
		cfg.InfraKeywords = []string{
			"developer tools", "devtools", "infrastructure", "saas", "platform",
			"api", "sdk", "cloud", "dev tool",
		}
	}
	if cfg.MinTeamSize == 0 {
		cfg.MinTeamSize = 2
	}
	if cfg.MaxTeamSize == 0 {
		cfg.MaxTeamSize = 50
	}
	return &Scorer{cfg: cfg}
}

// Score computes the relevance score for one company.
func (s *Scorer) Score(c model.Company) int {
	score := 0
	text := strings.ToLower(strings.Join([]string{
		strings.Join(c.Industries, " "),
		strings.Join(c.Tags, " "),
		c.OneLiner,
		c.LongDescription,
	}, " "))

	if containsAny(text, s.cfg.AIKeywords) {
		score += s.cfg.AIWeight
	}
	if c.IsHiring {
		score += s.cfg.HiringWeight
	}
	locs := strings.ToLower(strings.Join(c.Locations, " "))
	if containsAny(locs, s.cfg.LocationKeywords) {
		score += s.cfg.LocationWeight
	}
	if c.TeamSize >= s.cfg.MinTeamSize && c.TeamSize <= s.cfg.MaxTeamSize {
		score += s.cfg.TeamSizeWeight
	}
	if containsAny(text, s.cfg.InfraKeywords) {
		score += s.cfg.InfraWeight
	}
	return score
}

// ScoreAll scores every stored company and persists the results. Returns
// how many companies were scored.
func (s *Scorer) ScoreAll(ctx context.Context, st Store) (int, error) {
	companies, err := st.ListScorable(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "scorer: list companies")
	}

	scored := 0
	for _, c := range companies {
		if err := st.UpdateRelevanceScore(ctx, c.ID, s.Score(c)); err != nil {
			return scored, eris.Wrapf(err, "scorer: update %s", c.Slug)
		}
		scored++
	}
	zap.L().Info("scored companies", zap.Int("count", scored))
	return scored, nil
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
