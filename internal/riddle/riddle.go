// Package riddle produces riddle/answer pairs for enemies and grades
// player answers. Generation never fails: when the external generator is
// unavailable or returns garbage, the provider falls back to a fixed
// offline pool.
package riddle

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/georiddle/api/internal/georiddle"
)

// Riddle is a question together with its expected answer.
type Riddle struct {
	Text   string `json:"riddle"`
	Answer string `json:"answer"`
}

// Generator produces a riddle from a free-form prompt. Implementations
// talk to untrusted external services: any failure (transport, bad JSON,
// missing keys) is returned as an error and handled by the provider.
type Generator interface {
	Generate(ctx context.Context, prompt string) (Riddle, error)
}

// Provider resolves a category to a riddle using the table's strategy:
// math riddles are generated locally, text riddles come from the
// generator with the offline pool as the explicit fallback branch.
type Provider struct {
	table  *georiddle.PriorityTable
	gen    Generator
	rng    *rand.Rand
	logger *slog.Logger
}

// NewProvider builds a provider. rng may be nil, in which case each call
// derives its own source; pass a seeded one for deterministic tests
// (*rand.Rand is not safe for concurrent use).
func NewProvider(table *georiddle.PriorityTable, gen Generator, rng *rand.Rand, logger *slog.Logger) *Provider {
	return &Provider{table: table, gen: gen, rng: rng, logger: logger}
}

func (p *Provider) rand() *rand.Rand {
	if p.rng != nil {
		return p.rng
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Riddle returns a usable riddle/answer pair for the category. At most
// one outbound generator call is made; no retries.
func (p *Provider) Riddle(ctx context.Context, category string) Riddle {
	info, ok := p.table.Lookup(category)
	if !ok {
		return p.fromPool()
	}

	if info.Strategy == georiddle.StrategyMath {
		return MathRiddle(p.rand())
	}

	r, err := p.gen.Generate(ctx, textPrompt(info.Prompt))
	if err != nil {
		p.logger.Debug("riddle generator failed, using fallback pool",
			"category", category, "error", err)
		return p.fromPool()
	}
	return r
}

func (p *Provider) fromPool() Riddle {
	return fallbackPool[p.rand().IntN(len(fallbackPool))]
}

func textPrompt(theme string) string {
	return fmt.Sprintf(`Generate a JSON object with keys "riddle" and "answer".
%s
The answer must be one or two words.
Format strictly as a valid JSON: {"riddle": "...", "answer": "..."}.`, theme)
}

// fallbackPool is the fixed offline riddle set.
var fallbackPool = []Riddle{
	{Text: "What has to be broken before you can use it?", Answer: "An egg"},
	{Text: "I'm tall when I'm young, and I'm short when I'm old. What am I?", Answer: "A candle"},
	{Text: "What month of the year has 28 days?", Answer: "All of them"},
	{Text: "What is full of holes but still holds water?", Answer: "A sponge"},
	{Text: "What question can you never answer yes to?", Answer: "Are you asleep yet?"},
	{Text: "I follow you wherever you go, but I never speak; I'm always there but never seen in the light.", Answer: "shadow"},
	{Text: "I speak without a mouth and hear without ears. I have nobody, but I come alive when you call.", Answer: "echo"},
	{Text: "The more you take, the more you leave behind.", Answer: "footsteps"},
	{Text: "I have keys but no locks. I have space but no room. You can enter but can't go outside.", Answer: "keyboard"},
	{Text: "I go up and down stairs without moving.", Answer: "carpet"},
	{Text: "I fly without wings, I cry without eyes; wherever I go, darkness follows me.", Answer: "cloud"},
	{Text: "I am not alive, but I grow; I don't have lungs, but I need air; I don't have a mouth, but water kills me.", Answer: "fire"},
	{Text: "I have cities but no houses, forests but no trees, and rivers but no water.", Answer: "map"},
	{Text: "I can be cracked, made, told, and played.", Answer: "joke"},
}

// FallbackPool exposes a copy of the offline pool for tests and docs.
func FallbackPool() []Riddle {
	out := make([]Riddle, len(fallbackPool))
	copy(out, fallbackPool)
	return out
}
