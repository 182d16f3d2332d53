package format_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"cyberdock/internal/format"
)

func TestBRL(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{300, "R$ 300,00"},
		{1234.56, "R$ 1.234,56"},
		{1234567.891, "R$ 1.234.567,89"},
		{0, "R$ 0,00"},
		{-45.5, "-R$ 45,50"},
		{-0.001, "R$ 0,00"},
		{math.NaN(), "R$ 0,00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, format.BRL(tt.in))
	}
}

func TestPercentAndCounts(t *testing.T) {
	assert.Equal(t, "75%", format.Percent(0.75))
	assert.Equal(t, "0%", format.Percent(0))
	assert.Equal(t, "0%", format.Percent(math.Inf(1)))
	assert.Equal(t, "3 vendas", format.Orders(3))
	assert.Equal(t, "1.200 unid.", format.Units(1200))
}

func TestDates(t *testing.T) {
	ts := time.Date(2024, 3, 10, 14, 5, 9, 0, time.UTC)
	assert.Equal(t, "10/03/2024", format.Date(ts))
	assert.Equal(t, "10/03/2024 14:05:09", format.DateTime(ts, time.UTC))
}
