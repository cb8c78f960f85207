package riddle

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georiddle/api/internal/georiddle"
)

type stubGenerator struct {
	riddle  Riddle
	err     error
	prompts []string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (Riddle, error) {
	g.prompts = append(g.prompts, prompt)
	return g.riddle, g.err
}

func testProvider(gen Generator) *Provider {
	table := georiddle.NewPriorityTable([]georiddle.Category{
		{Name: "museum", Archetype: "Sphinx", Strategy: georiddle.StrategyText, Prompt: "The riddle should be about history."},
		{Name: "school", Archetype: "Imp", Strategy: georiddle.StrategyMath},
	})
	rng := rand.New(rand.NewPCG(3, 5))
	return NewProvider(table, gen, rng, slog.New(slog.DiscardHandler))
}

func inFallbackPool(r Riddle) bool {
	for _, f := range FallbackPool() {
		if f == r {
			return true
		}
	}
	return false
}

func TestRiddleUnknownCategoryUsesPool(t *testing.T) {
	gen := &stubGenerator{}
	p := testProvider(gen)

	r := p.Riddle(context.Background(), "volcano")
	assert.True(t, inFallbackPool(r), "got %+v", r)
	assert.Empty(t, gen.prompts, "unknown category must not reach the generator")
}

func TestRiddleMathCategoryGeneratesLocally(t *testing.T) {
	gen := &stubGenerator{}
	p := testProvider(gen)

	r := p.Riddle(context.Background(), "school")
	assert.True(t, strings.HasPrefix(r.Text, "What is "), "got %q", r.Text)
	assert.Empty(t, gen.prompts, "math category must not reach the generator")
}

func TestRiddleTextCategoryUsesGenerator(t *testing.T) {
	want := Riddle{Text: "What guards a pharaoh?", Answer: "sphinx"}
	gen := &stubGenerator{riddle: want}
	p := testProvider(gen)

	r := p.Riddle(context.Background(), "museum")
	assert.Equal(t, want, r)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "history")
	assert.Contains(t, gen.prompts[0], `"riddle"`)
	assert.Contains(t, gen.prompts[0], "one or two words")
}

func TestRiddleGeneratorFailureFallsBack(t *testing.T) {
	gen := &stubGenerator{err: errors.New("socket timeout")}
	p := testProvider(gen)

	r := p.Riddle(context.Background(), "museum")
	assert.True(t, inFallbackPool(r), "got %+v", r)
	// Exactly one attempt, no retries.
	assert.Len(t, gen.prompts, 1)
}

func TestFallbackPoolSize(t *testing.T) {
	assert.Len(t, FallbackPool(), 14)
}

func TestParseGenerated(t *testing.T) {
	r, err := ParseGenerated(`{"riddle": "What has keys?", "answer": "keyboard"}`)
	require.NoError(t, err)
	assert.Equal(t, "What has keys?", r.Text)
	assert.Equal(t, "keyboard", r.Answer)

	// Fenced output still parses.
	r, err = ParseGenerated("```json\n{\"riddle\": \"q\", \"answer\": \"a\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "q", r.Text)

	for _, bad := range []string{
		"",
		"no json here",
		`{"riddle": "q"}`,
		`{"answer": "a"}`,
		`{"riddle": 5, "answer": "a"}`,
	} {
		_, err := ParseGenerated(bad)
		assert.Error(t, err, "input %q", bad)
	}
}
