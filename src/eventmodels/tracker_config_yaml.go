package eventmodels

import (
	"fmt"
	"time"
)

// TrackerConfigYAML is the tracker's config file, loaded at startup.
type TrackerConfigYAML struct {
	PollingIntervalSeconds int    `yaml:"polling_interval_seconds"`
	OrderLookback          int    `yaml:"order_lookback"`
	StatusAddr             string `yaml:"status_addr"`

	Tradier struct {
		BaseURL   string `yaml:"base_url"`
		AccountID string `yaml:"account_id"`
	} `yaml:"tradier"`

	MarketData struct {
		Provider string `yaml:"provider"` // "tradier" or "polygon"
	} `yaml:"market_data"`
}

func (c *TrackerConfigYAML) Validate() error {
	if c.PollingIntervalSeconds <= 0 {
		return fmt.Errorf("TrackerConfigYAML.Validate: polling_interval_seconds must be positive")
	}

	if c.OrderLookback <= 0 {
		return fmt.Errorf("TrackerConfigYAML.Validate: order_lookback must be positive")
	}

	if c.Tradier.BaseURL == "" {
		return fmt.Errorf("TrackerConfigYAML.Validate: tradier.base_url is required")
	}

	switch c.MarketData.Provider {
	case "tradier", "polygon":
	default:
		return fmt.Errorf("TrackerConfigYAML.Validate: unknown market data provider: %s", c.MarketData.Provider)
	}

	return nil
}

func (c *TrackerConfigYAML) PollingInterval() time.Duration {
	return time.Duration(c.PollingIntervalSeconds) * time.Second
}
