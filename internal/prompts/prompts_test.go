package prompts

import (
	"testing"
)

func TestPick_Deterministic(t *testing.T) {
	for _, chain := range Chains() {
		a := Pick(chain, NewRand(42))
		b := Pick(chain, NewRand(42))
		if len(a) != 3 {
			t.Fatalf("%s: expected 3 prompts, got %d", chain, len(a))
		}
		for i := range a {
			if a[i] != b[i] {
				t.Errorf("%s: pick %d differs for the same seed: %+v vs %+v", chain, i, a[i], b[i])
			}
		}
	}
}

func TestPick_Titles(t *testing.T) {
	tests := []struct {
		chain string
		want  []string
	}{
		{ChainLLM, []string{"Active Note Insights", "Note Link Chat", "Test LLM"}},
		{ChainVaultQA, []string{"Vault Q&A", "Vault Q&A", "Note Link Chat"}},
		{ChainCopilotPlus, []string{"Active Note Insights", "Note Link Chat", "Test LLM"}},
		{"unknown", []string{"Active Note Insights", "Note Link Chat", "Test LLM"}},
	}
	for _, tt := range tests {
		got := Pick(tt.chain, NewRand(1))
		for i, p := range got {
			if p.Title != tt.want[i] {
				t.Errorf("%s[%d] title = %q, want %q", tt.chain, i, p.Title, tt.want[i])
			}
		}
	}
}

func TestPick_RepeatedKeyYieldsDistinctPrompts(t *testing.T) {
	for seed := uint64(0); seed < 50; seed++ {
		got := Pick(ChainVaultQA, NewRand(seed))
		if got[0].Text == got[1].Text {
			t.Fatalf("seed %d: repeated group returned the same prompt twice: %q", seed, got[0].Text)
		}
	}
}

func TestPick_TextsComeFromGroup(t *testing.T) {
	for _, p := range Pick(ChainLLM, NewRand(7)) {
		found := false
		for _, g := range groups {
			if g.Title != p.Title {
				continue
			}
			for _, text := range g.Prompts {
				if text == p.Text {
					found = true
				}
			}
		}
		if !found {
			t.Errorf("prompt %q not in group %q", p.Text, p.Title)
		}
	}
}
