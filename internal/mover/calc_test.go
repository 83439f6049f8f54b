package mover

import (
	"errors"
	"testing"
)

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name  string
		open  float64
		close float64
		want  float64
	}{
		{name: "one percent gain", open: 100, close: 101, want: 1.0},
		{name: "five percent loss", open: 200, close: 190, want: -5.0},
		{name: "flat", open: 50, close: 50, want: 0},
		{name: "doubling", open: 10, close: 20, want: 100},
		{name: "fractional prices", open: 0.5, close: 0.75, want: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentChange(tt.open, tt.close)
			if got != tt.want {
				t.Errorf("PercentChange(%v, %v) = %v, want %v", tt.open, tt.close, got, tt.want)
			}
		})
	}
}

func TestSelectWinner(t *testing.T) {
	tests := []struct {
		name    string
		changes []Change
		want    string
	}{
		{
			name: "largest negative move wins on absolute value",
			changes: []Change{
				{Ticker: "AAPL", PercentChange: 1.0},
				{Ticker: "MSFT", PercentChange: -5.0},
				{Ticker: "GOOGL", PercentChange: 3.0},
			},
			want: "MSFT",
		},
		{
			name: "single entry",
			changes: []Change{
				{Ticker: "TSLA", PercentChange: -0.2},
			},
			want: "TSLA",
		},
		{
			name: "tie broken by input order",
			changes: []Change{
				{Ticker: "AAPL", PercentChange: 2.5},
				{Ticker: "NVDA", PercentChange: -2.5},
			},
			want: "AAPL",
		},
		{
			name: "all flat picks first",
			changes: []Change{
				{Ticker: "AMZN", PercentChange: 0},
				{Ticker: "MSFT", PercentChange: 0},
			},
			want: "AMZN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectWinner(tt.changes)
			if err != nil {
				t.Fatalf("SelectWinner() error = %v", err)
			}
			if got.Ticker != tt.want {
				t.Errorf("SelectWinner() = %s, want %s", got.Ticker, tt.want)
			}
		})
	}
}

func TestSelectWinnerEmpty(t *testing.T) {
	_, err := SelectWinner(nil)
	if !errors.Is(err, ErrNoQuotes) {
		t.Errorf("SelectWinner(nil) error = %v, want ErrNoQuotes", err)
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		name   string
		v      float64
		digits int
		want   float64
	}{
		{name: "four digits", v: 1.234567, digits: 4, want: 1.2346},
		{name: "two digits negative", v: -5.4567, digits: 2, want: -5.46},
		{name: "two digits up", v: 172.4567, digits: 2, want: 172.46},
		{name: "already exact", v: 3.14, digits: 2, want: 3.14},
		{name: "zero", v: 0, digits: 4, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Round(tt.v, tt.digits)
			if got != tt.want {
				t.Errorf("Round(%v, %d) = %v, want %v", tt.v, tt.digits, got, tt.want)
			}
		})
	}
}
