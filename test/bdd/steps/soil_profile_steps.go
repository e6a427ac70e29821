package steps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/agroinsight-go/internal/adapters/cache"
	"github.com/andrescamacho/agroinsight-go/internal/application/mediator"
	"github.com/andrescamacho/agroinsight-go/internal/application/setup"
	soilQueries "github.com/andrescamacho/agroinsight-go/internal/application/soil/queries"
	"github.com/andrescamacho/agroinsight-go/internal/domain/shared"
	"github.com/andrescamacho/agroinsight-go/internal/domain/soil"
	"github.com/andrescamacho/agroinsight-go/test/helpers"
)

type soilProfileContext struct {
	source   *helpers.MockSoilSource
	clock    *shared.MockClock
	ttl      time.Duration
	mediator mediator.Mediator

	response *soilQueries.GetSoilProfileResponse
	err      error
}

func InitializeSoilProfileScenario(ctx *godog.ScenarioContext) {
	c := &soilProfileContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		c.source = nil
		c.clock = shared.NewMockClock(time.Date(2024, 6, 10, 6, 0, 0, 0, time.UTC))
		c.ttl = 6 * time.Hour
		c.mediator = nil
		c.response = nil
		c.err = nil
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the soil API reports moisture (\d+(?:\.\d+)?) and temperature (\d+(?:\.\d+)?)$`, c.theSoilAPIReports)
	ctx.Step(`^soil profiles are cached for (\d+) hours$`, c.soilProfilesAreCachedFor)
	ctx.Step(`^the soil API is unreachable$`, c.theSoilAPIIsUnreachable)

	// When steps
	ctx.Step(`^I request the soil profile at (-?\d+(?:\.\d+)?), (-?\d+(?:\.\d+)?)$`, c.iRequestTheSoilProfile)
	ctx.Step(`^(\d+) hours pass$`, c.hoursPass)

	// Then steps
	ctx.Step(`^the soil profile should be served from cache$`, c.theSoilProfileShouldBeCached)
	ctx.Step(`^the soil profile should not be served from cache$`, c.theSoilProfileShouldNotBeCached)
	ctx.Step(`^the soil API should have been called (\d+) times?$`, c.theSoilAPIShouldHaveBeenCalled)
	ctx.Step(`^the soil profile source should be "([^"]*)"$`, c.theSoilProfileSourceShouldBe)
}

func (c *soilProfileContext) theSoilAPIReports(moisture, temperature float64) error {
	c.source = helpers.NewMockSoilSource(soil.NewReading(moisture, temperature))
	return nil
}

func (c *soilProfileContext) soilProfilesAreCachedFor(hours int) error {
	c.ttl = time.Duration(hours) * time.Hour
	return nil
}

func (c *soilProfileContext) theSoilAPIIsUnreachable() error {
	if c.source == nil {
		return fmt.Errorf("the soil API must be configured first")
	}
	c.source.SetError(errors.New("connection refused"))
	return nil
}

// ensureMediator builds the mediator once per scenario so the cache survives
// between requests
func (c *soilProfileContext) ensureMediator() error {
	if c.mediator != nil {
		return nil
	}
	if c.source == nil {
		return fmt.Errorf("the soil API must be configured first")
	}

	soilCache := cache.New(cache.Options{Name: "soil", DefaultTTL: c.ttl, Clock: c.clock})
	registry := setup.NewHandlerRegistry(setup.Dependencies{
		SoilSource: c.source,
		SoilCache:  soilCache,
		SoilTTL:    c.ttl,
		Clock:      c.clock,
	})
	m, err := registry.CreateConfiguredMediator()
	if err != nil {
		return fmt.Errorf("failed to build mediator: %w", err)
	}
	c.mediator = m
	return nil
}

func (c *soilProfileContext) iRequestTheSoilProfile(lat, lon float64) error {
	if err := c.ensureMediator(); err != nil {
		return err
	}

	response, err := c.mediator.Send(context.Background(), &soilQueries.GetSoilProfileQuery{Lat: lat, Lon: lon})
	c.err = err
	c.response = nil
	if err == nil {
		var ok bool
		c.response, ok = response.(*soilQueries.GetSoilProfileResponse)
		if !ok {
			return fmt.Errorf("unexpected response type: %T", response)
		}
	}
	return nil
}

func (c *soilProfileContext) hoursPass(hours int) error {
	c.clock.Advance(time.Duration(hours) * time.Hour)
	return nil
}

func (c *soilProfileContext) lastResponse() (*soilQueries.GetSoilProfileResponse, error) {
	if c.err != nil {
		return nil, fmt.Errorf("expected a soil profile but got error: %w", c.err)
	}
	if c.response == nil {
		return nil, fmt.Errorf("no soil profile was requested")
	}
	return c.response, nil
}

func (c *soilProfileContext) theSoilProfileShouldBeCached() error {
	response, err := c.lastResponse()
	if err != nil {
		return err
	}
	if !response.Cached {
		return fmt.Errorf("expected the soil profile to be served from cache")
	}
	return nil
}

func (c *soilProfileContext) theSoilProfileShouldNotBeCached() error {
	response, err := c.lastResponse()
	if err != nil {
		return err
	}
	if response.Cached {
		return fmt.Errorf("expected a fresh soil profile but it came from cache")
	}
	return nil
}

func (c *soilProfileContext) theSoilAPIShouldHaveBeenCalled(times int) error {
	if got := c.source.CallCount(); got != times {
		return fmt.Errorf("expected %d soil API calls but got %d", times, got)
	}
	return nil
}

func (c *soilProfileContext) theSoilProfileSourceShouldBe(source string) error {
	response, err := c.lastResponse()
	if err != nil {
		return err
	}
	if response.Profile.Source != source {
		return fmt.Errorf("expected soil profile source %q but got %q", source, response.Profile.Source)
	}
	return nil
}
