package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/pable/go-lol-titles/internal/config"
	"github.com/pable/go-lol-titles/internal/constants"
	"github.com/pable/go-lol-titles/internal/model"
	"github.com/pable/go-lol-titles/internal/titles"
)

const analyzeSystemPrompt = `You are a League of Legends performance analyst. You are given a player's
decay-weighted profile built from their recent games, the titles they qualify
for, and a question from the player.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise and actionable. Focus on what the player can actually improve.
- Keep it light: the titles are banter, not a ranking.

Metrics glossary:
- Averages are weighted by recency: the newest game weighs 1.0, each older game 0.85 of the one after it.
- win_streak / loss_streak: consecutive results counted back from the newest game.
- damage: damage dealt to champions. taken: damage received. mitigated: damage blocked or shielded on self.
- cc_time: seconds spent crowd-controlling enemies.
- vision: vision score. wards: wards placed. cs: minions killed.
- surrender_rate: weighted share of games ending in a surrender or early surrender.
- titles: each title's score for this player and the minimum score it needs.`

var (
	analyzeModel  string
	analyzeAPIKey string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <player> [question]",
	Short: "AI-powered grounded analysis of a player's profile (requires ANTHROPIC_API_KEY)",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", constants.DefaultAnalyzeModel, "Anthropic model to use")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	question := "What stands out in my recent games, and what should I work on?"
	if len(args) == 2 {
		question = args[1]
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	sp, err := loadStoredPlayer(db, args[0], cfg.Decay)
	if err != nil {
		return err
	}
	if sp.Profile == nil {
		return fmt.Errorf("no resolvable games stored for %s", sp.Player.DisplayName())
	}

	contextJSON, err := buildProfileContext(sp.Player.DisplayName(), sp.Profile, titles.Default())
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}

	apiKey := resolveAPIKey(analyzeAPIKey, cfg)
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}
	return callAnthropic(cmd.Context(), cmd.OutOrStdout(), apiKey, analyzeModel, contextJSON, question)
}

// resolveAPIKey prefers the --api-key flag over the configured key, which
// config.Load already reads from ANTHROPIC_API_KEY.
func resolveAPIKey(flagKey string, c *config.Config) string {
	if flagKey != "" {
		return flagKey
	}
	if c == nil {
		return ""
	}
	return c.AnthropicAPIKey
}

// buildProfileContext serialises a profile and its title scores into compact JSON.
func buildProfileContext(name string, p *model.PerformanceProfile, cat titles.Catalogue) (string, error) {
	type titleEntry struct {
		Title    string  `json:"title"`
		Rarity   string  `json:"rarity"`
		Score    float64 `json:"score"`
		MinScore float64 `json:"min_score"`
		Eligible bool    `json:"eligible"`
		StatLine string  `json:"stat_line,omitempty"`
	}
	entries := make([]titleEntry, 0, len(cat))
	for _, d := range cat {
		score := d.Score(p)
		e := titleEntry{
			Title:    d.Name,
			Rarity:   d.Rarity.String(),
			Score:    round2(score),
			MinScore: d.MinScore,
			Eligible: score >= d.MinScore,
		}
		if e.Eligible {
			e.StatLine = d.StatLine(p)
		}
		entries = append(entries, e)
	}

	doc := map[string]interface{}{
		"subject":        "player",
		"player":         name,
		"games_analyzed": p.Games,
		"streaks": map[string]interface{}{
			"win_streak":  p.WinStreak,
			"loss_streak": p.LossStreak,
		},
		"combat": map[string]interface{}{
			"kills":   round2(p.AvgKills),
			"deaths":  round2(p.AvgDeaths),
			"assists": round2(p.AvgAssists),
			"kda":     round2(p.KDA()),
			"damage":  round2(p.AvgDamage),
			"healing": round2(p.AvgHealing),
		},
		"durability": map[string]interface{}{
			"taken":     round2(p.AvgDamageTaken),
			"mitigated": round2(p.AvgSelfMitigated),
		},
		"utility": map[string]interface{}{
			"cc_time": round2(p.AvgCCTime),
			"vision":  round2(p.AvgVisionScore),
			"wards":   round2(p.AvgWardsPlaced),
			"cs":      round2(p.AvgCS),
		},
		"surrender_rate": round2(p.SurrenderRate),
		"titles":         entries,
	}

	b, err := json.Marshal(doc)
	return string(b), err
}

// round2 rounds half away from zero to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// callAnthropic streams the model's answer to w as it arrives.
func callAnthropic(ctx context.Context, w io.Writer, apiKey, modelID, dataJSON, question string) error {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)

	fmt.Fprintln(w, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(w, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(w, "\n─────────────────────────────────────────────────────")

	return streamError(stream.Err())
}

// streamError maps a failed stream to a user-facing error.
func streamError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("API authentication failed, check your API key: %w", err)
	}
	return fmt.Errorf("streaming error: %w", err)
}
