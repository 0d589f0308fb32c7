package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fundregistry/internal/normalize"
)

func TestFundNumber(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"no numeral", "Blackstone Capital Partners", ""},
		{"trailing numeral", "KKR Americas Fund XII", "XII"},
		{"numeral mid-name", "Apollo Investment Fund IX Europe", "IX"},
		{"lowercase numeral", "warburg pincus private equity xi", "XI"},
		{"numeral with trailing dot", "Carlyle Partners VII.", "VII"},
		{"hyphenated sub-class", "TPG Partners VIII-A", "VIII"},
		{"largest numeral wins", "Fund III Feeder II", "III"},
		{"parenthesized numeral", "Cinven (VII)", "VII"},

		// "I" heuristics.
		{"leading I is not a number", "I Squared Global Infrastructure", ""},
		{"I after fund context word", "Springblue Fund I", "I"},
		{"I after capital", "Evergreen Capital I", "I"},
		{"I after brand word is skipped", "Type I Partners", ""},

		// "V" heuristic.
		{"V after word ending in v is skipped", "Narv V Partners", ""},
		{"V after ordinary word counts", "Hellman Capital V", "V"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize.FundNumber(tt.in))
		})
	}
}
