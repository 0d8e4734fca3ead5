package embedding

import (
	"hash/fnv"
	"strings"
	"unicode"
)

const (
	clsTokenID = 101
	sepTokenID = 102
	// BERT vocabularies keep [PAD], [unused*] and special tokens below 1000.
	firstWordTokenID = 1000
	vocabSize        = 30522
)

// Tokenizer produces token IDs for BERT-style models (input_ids, attention_mask, token_type_ids).
type Tokenizer interface {
	Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64)
}

// TermTokenizer hashes each note term (see Terms) to a word-piece ID and wraps the
// sequence in [CLS] ... [SEP], padded to maxTokens. Terms past maxTokens-2 are dropped.
type TermTokenizer struct{}

// Tokenize returns fixed-length model inputs for text.
func (TermTokenizer) Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64) {
	if maxTokens <= 2 {
		maxTokens = 256
	}
	inputIDs = make([]int64, maxTokens)
	attentionMask = make([]int64, maxTokens)
	tokenTypeIDs = make([]int64, maxTokens)

	inputIDs[0], attentionMask[0] = clsTokenID, 1
	pos := 1
	for _, term := range Terms(text) {
		if pos == maxTokens-1 {
			break
		}
		inputIDs[pos] = int64(firstWordTokenID + HashString(term)%(vocabSize-firstWordTokenID))
		attentionMask[pos] = 1
		pos++
	}
	inputIDs[pos], attentionMask[pos] = sepTokenID, 1
	return inputIDs, attentionMask, tokenTypeIDs
}

// Terms splits text into lowercased runs of letters and digits. Markdown punctuation,
// wiki-link brackets and hashtags are separators.
func Terms(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// HashString returns a deterministic non-negative FNV-1a hash of s.
func HashString(s string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return int(h.Sum32() & 0x7fffffff)
}
