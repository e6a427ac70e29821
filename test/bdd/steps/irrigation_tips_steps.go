package steps

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"

	irrigationQueries "github.com/andrescamacho/agroinsight-go/internal/application/irrigation/queries"
	"github.com/andrescamacho/agroinsight-go/internal/application/setup"
	"github.com/andrescamacho/agroinsight-go/internal/domain/shared"
	"github.com/andrescamacho/agroinsight-go/internal/domain/weather"
	"github.com/andrescamacho/agroinsight-go/test/helpers"
)

type irrigationTipsContext struct {
	clock    *shared.MockClock
	current  *weather.CurrentWeather
	forecast *weather.Forecast
	outage   bool

	response *irrigationQueries.GetIrrigationTipsResponse
	err      error
}

func InitializeIrrigationTipsScenario(ctx *godog.ScenarioContext) {
	c := &irrigationTipsContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		c.clock = shared.NewMockClock(time.Date(2024, 7, 15, 6, 0, 0, 0, time.UTC))
		c.current = nil
		c.forecast = nil
		c.outage = false
		c.response = nil
		c.err = nil
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the weather is (-?\d+(?:\.\d+)?) degrees with (\d+(?:\.\d+)?)% humidity$`, c.theWeatherIs)
	ctx.Step(`^the forecast has (\d+(?:\.\d+)?) mm of rain in each of the next (\d+) slots$`, c.theForecastHasRain)
	ctx.Step(`^the weather service is down$`, c.theWeatherServiceIsDown)
	ctx.Step(`^the current month is "([^"]*)"$`, c.theCurrentMonthIs)

	// When steps
	ctx.Step(`^I request irrigation tips for city "([^"]*)" in season "([^"]*)"$`, c.iRequestTipsForSeason)
	ctx.Step(`^I request irrigation tips for city "([^"]*)"$`, c.iRequestTips)

	// Then steps
	ctx.Step(`^(\d+) irrigation tips should be generated$`, c.nTipsShouldBeGenerated)
	ctx.Step(`^the tips should cover the crops "([^"]*)"$`, c.theTipsShouldCoverCrops)
	ctx.Step(`^every tip should have a title and a description$`, c.everyTipShouldHaveTitleAndDescription)
	ctx.Step(`^the tips should be based on live weather$`, c.theTipsShouldBeWeatherBased)
	ctx.Step(`^the tips should not be based on live weather$`, c.theTipsShouldNotBeWeatherBased)
	ctx.Step(`^every tip should use the "([^"]*)" advisory$`, c.everyTipShouldUseBucket)
	ctx.Step(`^the tips should be for season "([^"]*)"$`, c.theTipsShouldBeForSeason)
	ctx.Step(`^the tips request should be rejected for field "([^"]*)"$`, c.theTipsRequestShouldBeRejected)
}

func (c *irrigationTipsContext) theWeatherIs(temperature, humidity float64) error {
	c.current = &weather.CurrentWeather{
		Temperature: temperature,
		Humidity:    humidity,
		ObservedAt:  c.clock.Now(),
	}
	return nil
}

func (c *irrigationTipsContext) theForecastHasRain(mm float64, slots int) error {
	entries := make([]weather.ForecastEntry, slots)
	start := c.clock.Now()
	for i := range entries {
		entries[i] = weather.ForecastEntry{
			Time:   start.Add(time.Duration(i*3) * time.Hour),
			Rain3h: mm,
		}
	}
	c.forecast = &weather.Forecast{Entries: entries}
	return nil
}

func (c *irrigationTipsContext) theWeatherServiceIsDown() error {
	c.outage = true
	return nil
}

func (c *irrigationTipsContext) theCurrentMonthIs(month string) error {
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(m.String(), month) {
			c.clock.SetTime(time.Date(2024, m, 15, 6, 0, 0, 0, time.UTC))
			return nil
		}
	}
	return fmt.Errorf("unknown month %q", month)
}

func (c *irrigationTipsContext) send(query *irrigationQueries.GetIrrigationTipsQuery) error {
	current := c.current
	if current == nil {
		current = &weather.CurrentWeather{}
	}
	provider := helpers.NewMockWeatherProvider(current, c.forecast)
	if c.outage {
		provider.SetError(errors.New("service unavailable"))
	}

	registry := setup.NewHandlerRegistry(setup.Dependencies{
		Weather:  provider,
		Geocoder: helpers.NewMockGeocoder(),
		Clock:    c.clock,
	})
	m, err := registry.CreateConfiguredMediator()
	if err != nil {
		return fmt.Errorf("failed to build mediator: %w", err)
	}

	response, err := m.Send(context.Background(), query)
	c.err = err
	if err == nil {
		var ok bool
		c.response, ok = response.(*irrigationQueries.GetIrrigationTipsResponse)
		if !ok {
			return fmt.Errorf("unexpected response type: %T", response)
		}
	}
	return nil
}

func (c *irrigationTipsContext) iRequestTipsForSeason(city, season string) error {
	return c.send(&irrigationQueries.GetIrrigationTipsQuery{City: city, Season: season})
}

func (c *irrigationTipsContext) iRequestTips(city string) error {
	return c.send(&irrigationQueries.GetIrrigationTipsQuery{City: city})
}

func (c *irrigationTipsContext) tips() (*irrigationQueries.GetIrrigationTipsResponse, error) {
	if c.err != nil {
		return nil, fmt.Errorf("expected tips but got error: %w", c.err)
	}
	if c.response == nil {
		return nil, fmt.Errorf("no tips were requested")
	}
	return c.response, nil
}

func (c *irrigationTipsContext) nTipsShouldBeGenerated(n int) error {
	response, err := c.tips()
	if err != nil {
		return err
	}
	if len(response.Tips) != n {
		return fmt.Errorf("expected %d tips but got %d", n, len(response.Tips))
	}
	return nil
}

func (c *irrigationTipsContext) theTipsShouldCoverCrops(list string) error {
	response, err := c.tips()
	if err != nil {
		return err
	}

	var want []string
	for _, crop := range strings.Split(list, ",") {
		want = append(want, strings.TrimSpace(crop))
	}
	got := make([]string, 0, len(response.Tips))
	for _, tip := range response.Tips {
		got = append(got, tip.Crop)
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		return fmt.Errorf("expected crops %v but got %v", want, got)
	}
	return nil
}

func (c *irrigationTipsContext) everyTipShouldHaveTitleAndDescription() error {
	response, err := c.tips()
	if err != nil {
		return err
	}
	for _, tip := range response.Tips {
		if strings.TrimSpace(tip.Title) == "" || strings.TrimSpace(tip.Description) == "" {
			return fmt.Errorf("tip for %s is missing a title or description", tip.Crop)
		}
		if strings.Contains(tip.Title, "{") || strings.Contains(tip.Description, "{") {
			return fmt.Errorf("tip for %s has an unfilled placeholder", tip.Crop)
		}
	}
	return nil
}

func (c *irrigationTipsContext) theTipsShouldBeWeatherBased() error {
	response, err := c.tips()
	if err != nil {
		return err
	}
	if !response.WeatherBased {
		return fmt.Errorf("expected tips based on live weather")
	}
	return nil
}

func (c *irrigationTipsContext) theTipsShouldNotBeWeatherBased() error {
	response, err := c.tips()
	if err != nil {
		return err
	}
	if response.WeatherBased {
		return fmt.Errorf("expected tips based on seasonal normals")
	}
	return nil
}

func (c *irrigationTipsContext) everyTipShouldUseBucket(bucket string) error {
	response, err := c.tips()
	if err != nil {
		return err
	}
	for _, tip := range response.Tips {
		if string(tip.Bucket) != bucket {
			return fmt.Errorf("expected %s advisory for %s but got %s", bucket, tip.Crop, tip.Bucket)
		}
	}
	return nil
}

func (c *irrigationTipsContext) theTipsShouldBeForSeason(season string) error {
	response, err := c.tips()
	if err != nil {
		return err
	}
	if string(response.Season) != season {
		return fmt.Errorf("expected season %s but got %s", season, response.Season)
	}
	return nil
}

func (c *irrigationTipsContext) theTipsRequestShouldBeRejected(field string) error {
	if c.err == nil {
		return fmt.Errorf("expected the tips request to be rejected")
	}
	var validation *shared.ValidationError
	if !errors.As(c.err, &validation) {
		return fmt.Errorf("expected a validation error but got: %v", c.err)
	}
	if validation.Field != field {
		return fmt.Errorf("expected validation error for %q but got %q", field, validation.Field)
	}
	return nil
}
