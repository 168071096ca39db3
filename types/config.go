/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

import (
	"fmt"
	"time"
)

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose    bool             `mapstructure:"verbose"`
	Config     string           `mapstructure:"config"`
	Timezone   string           `mapstructure:"timezone" validate:"required"`
	Encoding   string           `mapstructure:"encoding" validate:"required"`
	History    HistoryConfig    `mapstructure:"history" validate:"required"`
	LostChains LostChainsConfig `mapstructure:"lostChains" validate:"required"`
}

// HistoryConfig holds archive layout settings
type HistoryConfig struct {
	Dir string `mapstructure:"dir" validate:"required,excludesall=/\\"`
}

// LostChainsConfig controls how unattributed event chains are written
type LostChainsConfig struct {
	// Account is the synthetic account identity lost chains are filed under
	Account string `mapstructure:"account" validate:"required"`
	// Discard lists module tags whose lost chains are dropped (IRC by default)
	Discard []string `mapstructure:"discard" validate:"dive,required"`
	// FixedPoint repeats the orphan pass until a fragment stops growing
	FixedPoint bool `mapstructure:"fixedPoint"`
}

// Location resolves Timezone, accepting "Local" and any IANA name.
func (c *AppConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
