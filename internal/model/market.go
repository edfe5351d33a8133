package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds an ascending daily price history for one symbol.
type PriceSeries struct {
	Symbol    string
	Bars      []OHLCV
	FetchedAt time.Time
}

// Closes returns the closing prices in series order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Volumes returns the traded volumes in series order.
func (s PriceSeries) Volumes() []float64 {
	vols := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		vols[i] = b.Volume
	}
	return vols
}

// Len returns the number of observations.
func (s PriceSeries) Len() int { return len(s.Bars) }
