package insights

import (
	"math"
	"testing"
	"time"

	"weather-compare/internal/weather"
)

func day(d int, temp, wind, humidity, precip float64) weather.Record {
	return weather.Record{
		Date:          time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC),
		Temperature:   temp,
		WindSpeed:     wind,
		Humidity:      humidity,
		Precipitation: precip,
	}
}

func series(name string, records ...weather.Record) weather.LocationSeries {
	return weather.LocationSeries{LocationName: name, Records: records}
}

func TestGenerateScenario(t *testing.T) {
	a := series("Stockholm",
		day(10, 10, 2, 80, 0),
		day(11, 12, 1, 75, 0),
		day(12, 9, 3, 90, 2),
	)
	b := series("Göteborg",
		day(10, 15, 1, 60, 0),
		day(11, 11, 1, 65, 0),
		day(12, 8, 2, 85, 0),
	)

	result := NewEngine(DefaultThresholds()).Generate(a, b)
	if len(result) != 3 {
		t.Fatalf("expected 3 insights, got %d: %+v", len(result), result)
	}

	tempDiff := result[0]
	if tempDiff.Kind != KindTempDiff {
		t.Fatalf("expected tempDiff first, got %s", tempDiff.Kind)
	}
	if tempDiff.HeadlineParams["date"] != "Mar 10" {
		t.Errorf("expected date Mar 10, got %q", tempDiff.HeadlineParams["date"])
	}
	if tempDiff.HeadlineParams["warmerLocation"] != "Göteborg" {
		t.Errorf("expected Göteborg warmer, got %q", tempDiff.HeadlineParams["warmerLocation"])
	}
	if tempDiff.HeadlineParams["diff"] != "5.0" {
		t.Errorf("expected diff 5.0, got %q", tempDiff.HeadlineParams["diff"])
	}

	// Göteborg Mar 10 scores 10-|15-15|-1-0 = 9, the highest of all days.
	bestDay := result[1]
	if bestDay.Kind != KindBestDay {
		t.Fatalf("expected bestDay second, got %s", bestDay.Kind)
	}
	if bestDay.HeadlineParams["location"] != "Göteborg" || bestDay.HeadlineParams["date"] != "Mar 10" {
		t.Errorf("unexpected best day: %v", bestDay.HeadlineParams)
	}
	if bestDay.DescriptionParams["temperature"] != "15.0" {
		t.Errorf("expected temperature 15.0, got %q", bestDay.DescriptionParams["temperature"])
	}
	if bestDay.DescriptionParams["windDescription"] != "{insights.bestDay.lightWind}" {
		t.Errorf("unexpected wind description: %q", bestDay.DescriptionParams["windDescription"])
	}
	if bestDay.DescriptionParams["rainDescription"] != "{insights.bestDay.noRain}" {
		t.Errorf("unexpected rain description: %q", bestDay.DescriptionParams["rainDescription"])
	}

	// Göteborg cools 15 -> 8; the fitted slope of -3.5 over 2 steps
	// projects a 7.0 degree drop, past the 2 degree gate. Stockholm's
	// 1.0 degree change is not.
	trend := result[2]
	if trend.Kind != KindTempTrend {
		t.Fatalf("expected tempTrend third, got %s", trend.Kind)
	}
	if trend.HeadlineParams["location"] != "Göteborg" {
		t.Errorf("expected Göteborg trend, got %q", trend.HeadlineParams["location"])
	}
	if trend.Emoji != "📉" || trend.DescriptionKey != "insights.tempTrend.cooling" {
		t.Errorf("expected cooling trend, got emoji %q key %q", trend.Emoji, trend.DescriptionKey)
	}
	if trend.DescriptionParams["change"] != "7.0" {
		t.Errorf("expected change 7.0, got %q", trend.DescriptionParams["change"])
	}
}

func TestGenerateEmptySeries(t *testing.T) {
	result := NewEngine(DefaultThresholds()).Generate(series("A"), series("B"))
	if len(result) != 0 {
		t.Fatalf("expected no insights for empty series, got %+v", result)
	}
}

func TestTempDifferenceThresholdIsStrict(t *testing.T) {
	engine := NewEngine(DefaultThresholds())

	// Exactly 1.0 degrees must not fire.
	at := engine.findBiggestTempDifference(
		series("A", day(10, 10, 1, 80, 0)),
		series("B", day(10, 11, 1, 80, 0)),
	)
	if at != nil {
		t.Errorf("difference of exactly 1.0 must not fire, got %+v", at)
	}

	above := engine.findBiggestTempDifference(
		series("A", day(10, 10, 1, 80, 0)),
		series("B", day(10, 11.04, 1, 80, 0)),
	)
	if above == nil {
		t.Fatal("difference above the threshold must fire")
	}
	if above.HeadlineParams["diff"] != "1.0" {
		t.Errorf("difference is rounded only for display, got %q", above.HeadlineParams["diff"])
	}
	if above.HeadlineParams["warmerLocation"] != "B" {
		t.Errorf("expected B warmer, got %q", above.HeadlineParams["warmerLocation"])
	}
}

func TestTempDifferencePicksPeakDay(t *testing.T) {
	// Day one is a dead heat; the insight reports the day with the
	// largest gap.
	ins := NewEngine(DefaultThresholds()).findBiggestTempDifference(
		series("A", day(10, 12, 1, 80, 0), day(11, 10, 1, 80, 0)),
		series("B", day(10, 12, 1, 80, 0), day(11, 14, 1, 80, 0)),
	)
	if ins == nil {
		t.Fatal("expected an insight")
	}
	if ins.HeadlineParams["date"] != "Mar 11" {
		t.Errorf("expected peak on Mar 11, got %q", ins.HeadlineParams["date"])
	}
	if ins.HeadlineParams["warmerLocation"] != "B" {
		t.Errorf("expected B warmer on the peak day, got %q", ins.HeadlineParams["warmerLocation"])
	}
}

func TestBestDayTieKeepsEarliestOfFirstSeries(t *testing.T) {
	// Identical conditions everywhere: the scan keeps the first series'
	// earliest day because later equal scores never replace it.
	rec := day(10, 15, 1, 70, 0)
	ins := NewEngine(DefaultThresholds()).findBestOutdoorDay(
		series("A", rec, day(11, 15, 1, 70, 0)),
		series("B", rec, day(11, 15, 1, 70, 0)),
	)
	if ins == nil {
		t.Fatal("expected an insight")
	}
	if ins.HeadlineParams["location"] != "A" || ins.HeadlineParams["date"] != "Mar 10" {
		t.Errorf("tie must keep A's earliest day, got %v", ins.HeadlineParams)
	}
}

func TestBestDayWindAndRainDescriptions(t *testing.T) {
	ins := NewEngine(DefaultThresholds()).findBestOutdoorDay(
		series("A", day(10, 15, 6, 70, 0.4)),
		series("B"),
	)
	if ins == nil {
		t.Fatal("expected an insight")
	}
	if ins.DescriptionParams["windDescription"] != "{insights.bestDay.moderateWind}" {
		t.Errorf("wind >= 5 is moderate, got %q", ins.DescriptionParams["windDescription"])
	}
	if ins.DescriptionParams["rainDescription"] != "{insights.bestDay.someRain}" {
		t.Errorf("non-zero precipitation is some rain, got %q", ins.DescriptionParams["rainDescription"])
	}
}

func TestTrendTieFavorsFirstSeries(t *testing.T) {
	// Both series project a 3.0 degree change; A warms, B cools. The tie
	// keeps A.
	ins := NewEngine(DefaultThresholds()).detectTemperatureTrend(
		series("A", day(10, 0, 1, 70, 0), day(11, 1, 1, 70, 0), day(12, 2, 1, 70, 0), day(13, 3, 1, 70, 0)),
		series("B", day(10, 3, 1, 70, 0), day(11, 2, 1, 70, 0), day(12, 1, 1, 70, 0), day(13, 0, 1, 70, 0)),
	)
	if ins == nil {
		t.Fatal("expected an insight")
	}
	if ins.HeadlineParams["location"] != "A" {
		t.Errorf("tie must keep A, got %q", ins.HeadlineParams["location"])
	}
	if ins.Emoji != "📈" || ins.DescriptionKey != "insights.tempTrend.warming" {
		t.Errorf("expected warming trend, got emoji %q key %q", ins.Emoji, ins.DescriptionKey)
	}
	if ins.DescriptionParams["change"] != "3.0" {
		t.Errorf("expected change 3.0, got %q", ins.DescriptionParams["change"])
	}
}

func TestWindChillUndefinedOutsideBounds(t *testing.T) {
	engine := NewEngine(DefaultThresholds())

	if _, ok := engine.WindChill(10.1, 5); ok {
		t.Error("wind chill is undefined above 10 degrees")
	}
	// 1.3 m/s is 4.68 km/h, just under the 4.8 km/h floor.
	if _, ok := engine.WindChill(5, 1.3); ok {
		t.Error("wind chill is undefined below 4.8 km/h")
	}
	if _, ok := engine.WindChill(10, 2); !ok {
		t.Error("wind chill is defined at the temperature bound")
	}
}

func TestWindChillKnownValue(t *testing.T) {
	// 0 degrees at 10 km/h feels like about -3.3 on the standard chart.
	chill, ok := NewEngine(DefaultThresholds()).WindChill(0, 10.0/3.6)
	if !ok {
		t.Fatal("expected wind chill to be defined")
	}
	if math.Abs(chill-(-3.3)) > 0.05 {
		t.Errorf("expected roughly -3.3, got %v", chill)
	}
}

func TestWindChillAlertFires(t *testing.T) {
	// -5 degrees at 10 m/s feels like -13.7; the 8.7 degree gap clears
	// the 3 degree gate.
	ins := NewEngine(DefaultThresholds()).findWindChillAlert(
		series("A", day(10, -5, 10, 70, 0)),
		series("B", day(10, 2, 1, 70, 0)),
	)
	if ins == nil {
		t.Fatal("expected a wind chill alert")
	}
	if ins.HeadlineParams["location"] != "A" || ins.HeadlineParams["date"] != "Mar 10" {
		t.Errorf("unexpected alert target: %v", ins.HeadlineParams)
	}
	if ins.HeadlineParams["feelsLike"] != "-13.7" {
		t.Errorf("expected feels-like -13.7, got %q", ins.HeadlineParams["feelsLike"])
	}
	if ins.DescriptionParams["actual"] != "-5.0" {
		t.Errorf("expected actual -5.0, got %q", ins.DescriptionParams["actual"])
	}
}

func TestWindChillAlertGapThresholdIsStrict(t *testing.T) {
	// Mild cold with light wind keeps the gap under 3 degrees.
	ins := NewEngine(DefaultThresholds()).findWindChillAlert(
		series("A", day(10, 9, 2, 70, 0)),
		series("B"),
	)
	if ins != nil {
		t.Errorf("small gaps must not fire, got %+v", ins)
	}
}

func TestLinearSlope(t *testing.T) {
	if slope := linearSlope([]float64{1, 2, 3, 4}); math.Abs(slope-1) > 1e-9 {
		t.Errorf("expected slope 1, got %v", slope)
	}
	if slope := linearSlope([]float64{5, 5, 5}); math.Abs(slope) > 1e-9 {
		t.Errorf("expected slope 0, got %v", slope)
	}
	if slope := linearSlope([]float64{7}); slope != 0 {
		t.Errorf("expected 0 for a single point, got %v", slope)
	}
}
