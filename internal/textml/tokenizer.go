// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

package textml

import (
	"strings"
	"unicode"
)

// Tokenizer splits document content into normalized tokens. The exact
// tokenization is a collaborator contract; DefaultTokenizer matches
// what the embedding trainer applies during fitting.
type Tokenizer func(content string) []string

// DefaultTokenizer lower-cases the content, strips punctuation and
// symbol runes, and splits on whitespace. Tokens that normalize to the
// empty string are dropped.
func DefaultTokenizer(content string) []string {
	var tokens []string
	for _, field := range strings.Fields(content) {
		token := normalizeToken(field)
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func normalizeToken(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
