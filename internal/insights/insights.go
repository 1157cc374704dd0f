// Package insights derives natural-language-ready findings from two
// aligned daily weather series. The engine emits structured,
// language-neutral data: a kind, an icon, and translation template keys
// with named substitution values. A separate formatting layer owns the
// human-readable text.
package insights

import (
	"math"
	"strconv"

	"weather-compare/internal/weather"
)

// Kind identifies one of the fixed insight types.
type Kind string

const (
	KindTempDiff  Kind = "tempDiff"
	KindBestDay   Kind = "bestDay"
	KindTempTrend Kind = "tempTrend"
	KindWindChill Kind = "windChill"
)

// Insight is one derived finding. Produced fresh per comparison; no
// identity beyond its kind.
type Insight struct {
	Kind              Kind              `json:"id"`
	Emoji             string            `json:"emoji"`
	HeadlineKey       string            `json:"headlineKey"`
	HeadlineParams    map[string]string `json:"headlineParams"`
	DescriptionKey    string            `json:"descriptionKey"`
	DescriptionParams map[string]string `json:"descriptionParams"`
}

// Thresholds gate whether each insight appears at all. The gates are
// strict: a value exactly at the threshold does not fire. All comparisons
// use unrounded values; rounding happens only when formatting parameters.
type Thresholds struct {
	TempDiffMinC        float64 // temperature difference must exceed this, °C
	TrendChangeMinC     float64 // projected temperature change must exceed this, °C
	WindChillGapMinC    float64 // actual-minus-feels-like gap must exceed this, °C
	WindChillMaxTempC   float64 // wind chill undefined above this temperature
	WindChillMinWindKmh float64 // wind chill undefined below this wind speed
}

// DefaultThresholds returns the standard gates.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TempDiffMinC:        1.0,
		TrendChangeMinC:     2.0,
		WindChillGapMinC:    3.0,
		WindChillMaxTempC:   10,
		WindChillMinWindKmh: 4.8,
	}
}

// Engine evaluates the four insights against a pair of series.
type Engine struct {
	thresholds Thresholds
}

// NewEngine creates an Engine with the given thresholds.
func NewEngine(thresholds Thresholds) *Engine {
	return &Engine{thresholds: thresholds}
}

// Generate evaluates all insights independently and returns those that
// pass their threshold, in fixed order: temperature-difference,
// best-outdoor-day, temperature-trend, wind-chill-alert.
//
// Records are assumed index-aligned between the two series (record i of A
// corresponds to the same calendar day as record i of B); pairwise
// comparisons truncate to the shorter length.
func (e *Engine) Generate(a, b weather.LocationSeries) []Insight {
	candidates := []*Insight{
		e.findBiggestTempDifference(a, b),
		e.findBestOutdoorDay(a, b),
		e.detectTemperatureTrend(a, b),
		e.findWindChillAlert(a, b),
	}

	result := make([]Insight, 0, len(candidates))
	for _, ins := range candidates {
		if ins != nil {
			result = append(result, *ins)
		}
	}
	return result
}

// WindChill computes the feels-like temperature for the standard wind
// chill formula. Input wind speed is m/s, converted internally to km/h.
// The formula is only defined for temperatures at or below the configured
// maximum and winds at or above the configured minimum; outside those
// bounds ok is false and no value is computed.
func (e *Engine) WindChill(tempC, windSpeedMS float64) (float64, bool) {
	windKmh := windSpeedMS * 3.6
	if tempC > e.thresholds.WindChillMaxTempC || windKmh < e.thresholds.WindChillMinWindKmh {
		return 0, false
	}
	vExp := math.Pow(windKmh, 0.16)
	return 13.12 + 0.6215*tempC - 11.37*vExp + 0.3965*tempC*vExp, true
}

// linearSlope returns the ordinary least-squares slope of values against
// their index. Zero for fewer than two points.
func linearSlope(values []float64) float64 {
	n := float64(len(values))
	if n < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	return (n*sumXY - sumX*sumY) / (n*sumX2 - sumX*sumX)
}

func format1(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func formatDate(rec weather.Record) string {
	return rec.Date.UTC().Format("Jan 2")
}

func (e *Engine) findBiggestTempDifference(a, b weather.LocationSeries) *Insight {
	length := len(a.Records)
	if len(b.Records) < length {
		length = len(b.Records)
	}
	if length == 0 {
		return nil
	}

	var maxDiff float64
	maxIdx := 0
	for i := 0; i < length; i++ {
		diff := math.Abs(a.Records[i].Temperature - b.Records[i].Temperature)
		if diff > maxDiff {
			maxDiff = diff
			maxIdx = i
		}
	}

	if maxDiff <= e.thresholds.TempDiffMinC {
		return nil
	}

	// Ties favor series A.
	warmer := a.LocationName
	if a.Records[maxIdx].Temperature < b.Records[maxIdx].Temperature {
		warmer = b.LocationName
	}

	return &Insight{
		Kind:        KindTempDiff,
		Emoji:       "🌡️",
		HeadlineKey: "insights.tempDiff.headline",
		HeadlineParams: map[string]string{
			"date":           formatDate(a.Records[maxIdx]),
			"warmerLocation": warmer,
			"diff":           format1(maxDiff),
		},
		DescriptionKey:    "insights.tempDiff.description",
		DescriptionParams: map[string]string{},
	}
}

// outdoorScore rates a day for outdoor activity: ideal temperature is
// 15 °C, wind subtracts linearly, precipitation heavily.
func outdoorScore(rec weather.Record) float64 {
	return 10 - math.Abs(rec.Temperature-15) - rec.WindSpeed - rec.Precipitation*10
}

func (e *Engine) findBestOutdoorDay(a, b weather.LocationSeries) *Insight {
	bestScore := math.Inf(-1)
	var bestRec *weather.Record
	bestLocation := ""

	// Series A is scanned fully before series B with a strict comparison,
	// so ties keep A's earliest qualifying record.
	for _, series := range []weather.LocationSeries{a, b} {
		for i := range series.Records {
			if score := outdoorScore(series.Records[i]); score > bestScore {
				bestScore = score
				bestRec = &series.Records[i]
				bestLocation = series.LocationName
			}
		}
	}

	if bestRec == nil {
		return nil
	}

	windKey := "insights.bestDay.lightWind"
	if bestRec.WindSpeed >= 5 {
		windKey = "insights.bestDay.moderateWind"
	}
	rainKey := "insights.bestDay.noRain"
	if bestRec.Precipitation != 0 {
		rainKey = "insights.bestDay.someRain"
	}

	return &Insight{
		Kind:        KindBestDay,
		Emoji:       "☀️",
		HeadlineKey: "insights.bestDay.headline",
		HeadlineParams: map[string]string{
			"date":     formatDate(*bestRec),
			"location": bestLocation,
		},
		DescriptionKey: "insights.bestDay.description",
		DescriptionParams: map[string]string{
			"temperature":     format1(bestRec.Temperature),
			"windDescription": "{" + windKey + "}",
			"rainDescription": "{" + rainKey + "}",
		},
	}
}

func (e *Engine) detectTemperatureTrend(a, b weather.LocationSeries) *Insight {
	tempsOf := func(series weather.LocationSeries) []float64 {
		temps := make([]float64, len(series.Records))
		for i, rec := range series.Records {
			temps[i] = rec.Temperature
		}
		return temps
	}

	tempsA := tempsOf(a)
	tempsB := tempsOf(b)
	slopeA := linearSlope(tempsA)
	slopeB := linearSlope(tempsB)
	changeA := math.Abs(slopeA * float64(len(tempsA)-1))
	changeB := math.Abs(slopeB * float64(len(tempsB)-1))

	// Ties favor series A.
	slope, change, locationName := slopeA, changeA, a.LocationName
	if changeB > changeA {
		slope, change, locationName = slopeB, changeB, b.LocationName
	}

	if change <= e.thresholds.TrendChangeMinC {
		return nil
	}

	warming := slope > 0
	emoji := "📉"
	direction := "{insights.tempTrend.directionCooling}"
	descriptionKey := "insights.tempTrend.cooling"
	if warming {
		emoji = "📈"
		direction = "{insights.tempTrend.directionWarming}"
		descriptionKey = "insights.tempTrend.warming"
	}

	return &Insight{
		Kind:        KindTempTrend,
		Emoji:       emoji,
		HeadlineKey: "insights.tempTrend.headline",
		HeadlineParams: map[string]string{
			"location":  locationName,
			"direction": direction,
		},
		DescriptionKey: descriptionKey,
		DescriptionParams: map[string]string{
			"change": format1(change),
		},
	}
}

func (e *Engine) findWindChillAlert(a, b weather.LocationSeries) *Insight {
	var (
		found     bool
		worstGap  float64
		worstRec  weather.Record
		feelsLike float64
		location  string
	)

	for _, series := range []weather.LocationSeries{a, b} {
		for _, rec := range series.Records {
			chill, ok := e.WindChill(rec.Temperature, rec.WindSpeed)
			if !ok {
				continue
			}
			gap := rec.Temperature - chill
			if !found || gap > worstGap {
				found = true
				worstGap = gap
				worstRec = rec
				feelsLike = chill
				location = series.LocationName
			}
		}
	}

	if !found || worstGap <= e.thresholds.WindChillGapMinC {
		return nil
	}

	return &Insight{
		Kind:        KindWindChill,
		Emoji:       "🥶",
		HeadlineKey: "insights.windChill.headline",
		HeadlineParams: map[string]string{
			"date":      formatDate(worstRec),
			"location":  location,
			"feelsLike": format1(feelsLike),
		},
		DescriptionKey: "insights.windChill.description",
		DescriptionParams: map[string]string{
			"actual": format1(worstRec.Temperature),
		},
	}
}
