package indicators

import (
	"strconv"
	"strings"
	"time"

	"tinkoff-assistant/internal/models"
)

// Indicator windows used for every augmented series.
const (
	EMAFastPeriod  = 12
	EMASlowPeriod  = 26
	RSIPeriod      = 14
	VolumeMAPeriod = 20
)

// Augment derives indicator columns for the given candle series. It is a
// pure function: the input is never mutated, and identical input yields
// bit-identical output. An empty series yields an empty result.
func Augment(candles []models.Candle) []models.IndicatorRow {
	closes := closePrices(candles)
	vols := volumes(candles)

	emaFast := EMA(closes, EMAFastPeriod)
	emaSlow := EMA(closes, EMASlowPeriod)
	rsi := RSI(closes, RSIPeriod)
	volMA := SMA(vols, VolumeMAPeriod)

	rows := make([]models.IndicatorRow, len(candles))
	for i, c := range candles {
		rows[i] = models.IndicatorRow{
			Candle:   c,
			EMAFast:  emaFast[i],
			EMASlow:  emaSlow[i],
			RSI:      rsi[i],
			VolumeMA: volMA[i],
		}
	}
	return rows
}

// Tail returns the last n rows of the series, or the whole series when it
// has fewer than n rows.
func Tail(rows []models.IndicatorRow, n int) []models.IndicatorRow {
	if n <= 0 || len(rows) <= n {
		return rows
	}
	return rows[len(rows)-n:]
}

// TabularText serializes indicator rows as CSV-like text for LLM input.
// Missing indicator values render as empty cells.
func TabularText(rows []models.IndicatorRow) string {
	var b strings.Builder
	b.WriteString("time,open,high,low,close,volume,ema_fast,ema_slow,rsi,vol_ma\n")
	for _, r := range rows {
		b.WriteString(r.Timestamp.UTC().Format(time.RFC3339))
		b.WriteByte(',')
		b.WriteString(formatPrice(r.Open))
		b.WriteByte(',')
		b.WriteString(formatPrice(r.High))
		b.WriteByte(',')
		b.WriteString(formatPrice(r.Low))
		b.WriteByte(',')
		b.WriteString(formatPrice(r.Close))
		b.WriteByte(',')
		b.WriteString(strconv.FormatInt(r.Volume, 10))
		b.WriteByte(',')
		b.WriteString(formatIndicator(r.EMAFast, r.HasEMAFast()))
		b.WriteByte(',')
		b.WriteString(formatIndicator(r.EMASlow, r.HasEMASlow()))
		b.WriteByte(',')
		b.WriteString(formatIndicator(r.RSI, r.HasRSI()))
		b.WriteByte(',')
		b.WriteString(formatIndicator(r.VolumeMA, r.HasVolumeMA()))
		b.WriteByte('\n')
	}
	return b.String()
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatIndicator(v float64, present bool) string {
	if !present {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}
