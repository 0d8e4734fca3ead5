// Package prompts provides suggested chat prompts per chain type.
package prompts

import "math/rand/v2"

// Chain types.
const (
	ChainLLM         = "llm_chain"
	ChainVaultQA     = "vault_qa"
	ChainCopilotPlus = "copilot_plus"
)

// Group is a titled set of prompt templates.
type Group struct {
	Title   string
	Prompts []string
}

// Prompt is a single suggestion.
type Prompt struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

var groups = map[string]Group{
	"activeNote": {
		Title: "Active Note Insights",
		Prompts: []string{
			"Provide three follow-up questions worded as if I'm asking you based on {activeNote}?",
			"What key questions does {activeNote} answer?",
			"Give me a quick recap of {activeNote} in two sentences.",
		},
	},
	"quoteNote": {
		Title: "Note Link Chat",
		Prompts: []string{
			"Based on [[<note>]], what improvements should we focus on next?",
			"Summarize the key points from [[<note>]].",
			"Summarize the recent updates from [[<note>]].",
			"Roast my writing in [[<note>]] and give concrete actionable feedback",
		},
	},
	"fun": {
		Title: "Test LLM",
		Prompts: []string{
			"9.11 and 9.8, which is bigger?",
			"What's the longest river in the world?",
			"If a lead ball and a feather are dropped simultaneously from the same height, which will reach the ground first?",
		},
	},
	"qaVault": {
		Title: "Vault Q&A",
		Prompts: []string{
			"What insights can I gather about <topic> from my notes?",
			"Explain <concept> based on my stored notes.",
			"Highlight important details on <topic> from my notes.",
			"Based on my notes on <topic>, what is the question that I should be asking, but am not?",
		},
	},
}

var chainKeys = map[string][]string{
	ChainLLM:         {"activeNote", "quoteNote", "fun"},
	ChainVaultQA:     {"qaVault", "qaVault", "quoteNote"},
	ChainCopilotPlus: {"activeNote", "quoteNote", "fun"},
}

// Chains returns the known chain types.
func Chains() []string {
	return []string{ChainLLM, ChainVaultQA, ChainCopilotPlus}
}

// Pick returns one prompt per group key of chain. Unknown chains use llm_chain.
// Each group is shuffled once with rng, so a key repeated in a chain yields distinct prompts;
// an exhausted group falls back to its first prompt. The same seed gives the same picks.
func Pick(chain string, rng *rand.Rand) []Prompt {
	keys, ok := chainKeys[chain]
	if !ok {
		keys = chainKeys[ChainLLM]
	}
	shuffled := make(map[string][]string, len(keys))
	out := make([]Prompt, 0, len(keys))
	for _, key := range keys {
		g := groups[key]
		pool, seen := shuffled[key]
		if !seen {
			pool = append([]string(nil), g.Prompts...)
			rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		}
		text := g.Prompts[0]
		if len(pool) > 0 {
			text = pool[len(pool)-1]
			pool = pool[:len(pool)-1]
		}
		shuffled[key] = pool
		out = append(out, Prompt{Title: g.Title, Text: text})
	}
	return out
}

// NewRand returns a PCG source seeded with seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
