package ratetable_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateTable_BracketFor(t *testing.T) {
	table := sampleTable(2026)

	tests := []struct {
		name     string
		income   string
		position int
	}{
		{"zero income", "0", 1},
		{"inside first bracket", "120", 1},
		{"boundary belongs to lower bracket", "300", 1},
		{"just above boundary", "300.01", 2},
		{"upper boundary of second", "1500", 2},
		{"inside third", "2000", 3},
		{"open top bracket", "12000", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ok := table.BracketFor(d(tt.income))
			assert.True(t, ok)
			assert.Equal(t, tt.position, b.Position)
		})
	}
}

func TestRateTable_CloneDoesNotShareBrackets(t *testing.T) {
	table := sampleTable(2026)
	cp := table.Clone()

	cp.Brackets[0].Rate = d("0.99")

	assert.True(t, table.Brackets[0].Rate.IsZero())
}
