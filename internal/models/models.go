// Package models provides domain models for the trading assistant.
package models

import (
	"math"
	"time"
)

// Candle represents OHLCV data for one 15-minute interval.
type Candle struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

// Instrument represents an entry in the provider's share catalogue.
type Instrument struct {
	FIGI   string
	Ticker string
	Name   string
}

// IndicatorRow is a candle extended with derived indicator values.
// Indicator fields are NaN until the indicator has enough history.
type IndicatorRow struct {
	Candle
	EMAFast  float64 // EMA(12) over close
	EMASlow  float64 // EMA(26) over close
	RSI      float64 // RSI(14) over close
	VolumeMA float64 // SMA(20) over volume
}

// HasEMAFast reports whether the fast EMA value is present.
func (r IndicatorRow) HasEMAFast() bool { return !math.IsNaN(r.EMAFast) }

// HasEMASlow reports whether the slow EMA value is present.
func (r IndicatorRow) HasEMASlow() bool { return !math.IsNaN(r.EMASlow) }

// HasRSI reports whether the RSI value is present.
func (r IndicatorRow) HasRSI() bool { return !math.IsNaN(r.RSI) }

// HasVolumeMA reports whether the volume SMA value is present.
func (r IndicatorRow) HasVolumeMA() bool { return !math.IsNaN(r.VolumeMA) }

// PlanStatus represents the lifecycle state of a trading plan.
type PlanStatus string

const (
	// PlanActive means the plan was issued and is not specially monitored.
	PlanActive PlanStatus = "active"
	// PlanTracking means the user requested ongoing monitoring of the plan.
	PlanTracking PlanStatus = "tracking"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s PlanStatus) Valid() bool {
	return s == PlanActive || s == PlanTracking
}

// PlanRecord is a persisted trading plan. Records are created by the
// analysis pipeline, mutated only through status updates and never deleted.
type PlanRecord struct {
	ID        int64
	Ticker    string
	Timestamp time.Time
	Plan      string
	Status    PlanStatus
}
