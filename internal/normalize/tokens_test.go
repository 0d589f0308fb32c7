package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fundregistry/internal/normalize"
)

func TestDistinctiveTokens(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"brand survives", "Blackstone Capital Partners VII", []string{"blackstone"}},
		{"all generic", "Global Growth Fund III", nil},
		{"two brands", "Hellman Friedman Capital Partners X", []string{"hellman", "friedman"}},
		{"geography is generic", "KKR Asia Pacific Fund IV", []string{"kkr"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalize.DistinctiveTokens(tt.in)
			assert.Len(t, got, len(tt.want))
			for _, tok := range tt.want {
				assert.Contains(t, got, tok)
			}
		})
	}
}

func TestStrategyKeywords(t *testing.T) {
	assert.Empty(t, normalize.StrategyKeywords("KKR Americas Fund XII"))

	got := normalize.StrategyKeywords("Ares Capital Europe V")
	assert.Len(t, got, 1)
	assert.Contains(t, got, "europe")

	got = normalize.StrategyKeywords("Brookfield Infrastructure Credit Fund II")
	assert.Len(t, got, 2)
	assert.Contains(t, got, "infrastructure")
	assert.Contains(t, got, "credit")
}

func TestEqualKeywords(t *testing.T) {
	a := normalize.StrategyKeywords("Ares Capital Europe V")
	b := normalize.StrategyKeywords("Ares Europe Fund V")
	c := normalize.StrategyKeywords("Ares Capital V")

	assert.True(t, normalize.EqualKeywords(a, b))
	assert.False(t, normalize.EqualKeywords(a, c))
	assert.True(t, normalize.EqualKeywords(nil, map[string]struct{}{}))
}
