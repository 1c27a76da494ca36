package indicators

import (
	"math"
	"strings"
	"testing"
	"time"

	"tinkoff-assistant/internal/models"
)

func testCandles(closes []float64) []models.Candle {
	base := time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, len(closes))
	for i, c := range closes {
		candles[i] = models.Candle{
			Timestamp: base.Add(time.Duration(i) * 15 * time.Minute),
			Open:      c - 0.5,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
			Volume:    int64(1000 + i),
		}
	}
	return candles
}

func TestSMA(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	result := SMA(values, 3)

	for i := 0; i < 2; i++ {
		if !math.IsNaN(result[i]) {
			t.Errorf("expected NaN at %d, got %v", i, result[i])
		}
	}
	want := []float64{2, 3, 4}
	for i, w := range want {
		if got := result[i+2]; math.Abs(got-w) > 1e-12 {
			t.Errorf("SMA[%d] = %v, want %v", i+2, got, w)
		}
	}
}

func TestSMAShortInput(t *testing.T) {
	result := SMA([]float64{1, 2}, 20)
	if len(result) != 2 {
		t.Fatalf("expected 2 values, got %d", len(result))
	}
	for i, v := range result {
		if !math.IsNaN(v) {
			t.Errorf("expected NaN at %d, got %v", i, v)
		}
	}
}

func TestEMA(t *testing.T) {
	values := []float64{10, 11, 12, 13, 14}
	result := EMA(values, 3)

	if !math.IsNaN(result[0]) || !math.IsNaN(result[1]) {
		t.Error("expected NaN before the first full window")
	}
	// Seed is SMA of the first window.
	if math.Abs(result[2]-11) > 1e-12 {
		t.Errorf("EMA seed = %v, want 11", result[2])
	}
	// Next: (13-11)*0.5 + 11 = 12
	if math.Abs(result[3]-12) > 1e-12 {
		t.Errorf("EMA[3] = %v, want 12", result[3])
	}
}

func TestRSIAllGains(t *testing.T) {
	values := make([]float64, 20)
	for i := range values {
		values[i] = float64(100 + i)
	}
	result := RSI(values, 14)

	for i := 0; i < 14; i++ {
		if !math.IsNaN(result[i]) {
			t.Errorf("expected NaN at %d, got %v", i, result[i])
		}
	}
	for i := 14; i < len(values); i++ {
		if result[i] != 100 {
			t.Errorf("RSI[%d] = %v, want 100 for monotonic gains", i, result[i])
		}
	}
}

func TestRSIBounds(t *testing.T) {
	values := []float64{44, 44.34, 44.09, 44.15, 43.61, 44.33, 44.83, 45.1,
		45.42, 45.84, 46.08, 45.89, 46.03, 45.61, 46.28, 46.28, 46.0, 46.03}
	result := RSI(values, 14)
	for i := 14; i < len(values); i++ {
		if result[i] < 0 || result[i] > 100 {
			t.Errorf("RSI[%d] = %v, out of [0, 100]", i, result[i])
		}
	}
}

func TestAugmentWindows(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + math.Sin(float64(i)/3)*5
	}
	rows := Augment(testCandles(closes))

	if len(rows) != 60 {
		t.Fatalf("expected 60 rows, got %d", len(rows))
	}

	// Slow EMA(26) has no value for the first 25 rows.
	for i := 0; i < 25; i++ {
		if rows[i].HasEMASlow() {
			t.Errorf("row %d should have no slow EMA", i)
		}
	}
	if !rows[25].HasEMASlow() {
		t.Error("row 25 should have a slow EMA value")
	}
	if rows[10].HasEMAFast() {
		t.Error("row 10 should have no fast EMA")
	}
	if !rows[11].HasEMAFast() {
		t.Error("row 11 should have a fast EMA value")
	}
	for i := 0; i < 14; i++ {
		if rows[i].HasRSI() {
			t.Errorf("row %d should have no RSI", i)
		}
	}
	if !rows[19].HasVolumeMA() {
		t.Error("row 19 should have a volume SMA value")
	}
	if rows[18].HasVolumeMA() {
		t.Error("row 18 should have no volume SMA value")
	}
}

func TestAugmentEmptySeries(t *testing.T) {
	rows := Augment(nil)
	if len(rows) != 0 {
		t.Fatalf("expected empty result for empty input, got %d rows", len(rows))
	}
}

func TestTail(t *testing.T) {
	rows := Augment(testCandles([]float64{1, 2, 3, 4, 5}))

	if got := Tail(rows, 3); len(got) != 3 || got[0].Close != 3 {
		t.Errorf("Tail(3) wrong: len=%d", len(got))
	}
	if got := Tail(rows, 10); len(got) != 5 {
		t.Errorf("Tail larger than series should return everything, got %d", len(got))
	}
}

func TestTabularText(t *testing.T) {
	rows := Augment(testCandles([]float64{100, 101, 102}))
	text := TabularText(rows)

	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d lines", len(lines))
	}
	if lines[0] != "time,open,high,low,close,volume,ema_fast,ema_slow,rsi,vol_ma" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	// Indicators have no values on a 3-row series: trailing empty cells.
	if !strings.HasSuffix(lines[1], ",,,") {
		t.Errorf("expected empty indicator cells, got %s", lines[1])
	}
}
