package config

import (
	"fmt"
	"log/slog"

	"github.com/fsnotify/fsnotify"
	"github.com/nstehr/rampart/model"
	"github.com/nstehr/rampart/rules"
	"github.com/spf13/viper"
)

// TierConfig is the file form of rules.Tier. Coordinates are [x, y] pairs.
type TierConfig struct {
	Name         string            `mapstructure:"name"`
	Unit         string            `mapstructure:"unit"`
	Locations    [][]int           `mapstructure:"locations"`
	MinTurn      int               `mapstructure:"minTurn"`
	MaxTurn      int               `mapstructure:"maxTurn"`
	When         string            `mapstructure:"when"`
	Count        int               `mapstructure:"count"`
	Expansions   []ExpansionConfig `mapstructure:"expansions"`
	Sample       *SampleConfig     `mapstructure:"sample"`
	FromBreaches *BreachConfig     `mapstructure:"fromBreaches"`
}

type ExpansionConfig struct {
	Above     float64 `mapstructure:"above"`
	Currency  string  `mapstructure:"currency"`
	Locations [][]int `mapstructure:"locations"`
	Pick      int     `mapstructure:"pick"`
}

type SampleConfig struct {
	From  [][]int `mapstructure:"from"`
	Count int     `mapstructure:"count"`
}

type BreachConfig struct {
	OffsetY int `mapstructure:"offsetY"`
	Limit   int `mapstructure:"limit"`
}

type BracketConfig struct {
	MinBits float64 `mapstructure:"minBits"`
	Count   int     `mapstructure:"count"`
}

type ScreenConfig struct {
	Unit      string          `mapstructure:"unit"`
	Locations [][]int         `mapstructure:"locations"`
	Brackets  []BracketConfig `mapstructure:"brackets"`
}

type ChoiceConfig struct {
	Unit   string  `mapstructure:"unit"`
	Weight float64 `mapstructure:"weight"`
}

type AttackConfig struct {
	Threshold float64        `mapstructure:"threshold"`
	Baseline  float64        `mapstructure:"baseline"`
	Base      float64        `mapstructure:"base"`
	Slope     float64        `mapstructure:"slope"`
	Count     int            `mapstructure:"count"`
	Choices   []ChoiceConfig `mapstructure:"choices"`
	Launch    [][]int        `mapstructure:"launch"`
}

type StrategyConfig struct {
	Name   string       `mapstructure:"name"`
	Tiers  []TierConfig `mapstructure:"tiers"`
	Screen ScreenConfig `mapstructure:"screen"`
	Attack AttackConfig `mapstructure:"attack"`
}

// setStrategyDefaults mirrors the scalar parts of rules.DefaultStrategy so a
// file can override one knob without restating the rest.
func setStrategyDefaults() {
	d := rules.DefaultStrategy()
	viper.SetDefault("strategy.name", d.Name)
	viper.SetDefault("strategy.screen.unit", d.Screen.Unit.String())
	viper.SetDefault("strategy.attack.threshold", d.Attack.Threshold)
	viper.SetDefault("strategy.attack.baseline", d.Attack.Baseline)
	viper.SetDefault("strategy.attack.base", d.Attack.Base)
	viper.SetDefault("strategy.attack.slope", d.Attack.Slope)
	viper.SetDefault("strategy.attack.count", d.Attack.Count)
}

// Strategy decodes the configured strategy. Lists left out of the file
// (tiers, screen cells and brackets, attack choices and launch cells) keep
// their defaults.
func Strategy() (rules.Strategy, error) {
	// Unmarshal, unlike UnmarshalKey, merges defaults and env per leaf key
	var root struct {
		Strategy StrategyConfig `mapstructure:"strategy"`
	}
	if err := viper.Unmarshal(&root); err != nil {
		return rules.Strategy{}, fmt.Errorf("decode strategy: %w", err)
	}
	return root.Strategy.toStrategy()
}

// Watch calls onChange with the re-read strategy whenever the config file
// changes. It does nothing when no file was loaded.
func Watch(onChange func(rules.Strategy)) bool {
	if viper.ConfigFileUsed() == "" {
		return false
	}
	viper.OnConfigChange(func(e fsnotify.Event) {
		s, err := Strategy()
		if err != nil {
			slog.Error("config reload rejected", "file", e.Name, "error", err)
			return
		}
		slog.Info("config reloaded", "file", e.Name, "strategy", s.Name)
		onChange(s)
	})
	viper.WatchConfig()
	return true
}

func (sc StrategyConfig) toStrategy() (rules.Strategy, error) {
	def := rules.DefaultStrategy()
	s := rules.Strategy{Name: sc.Name, Tiers: def.Tiers, Screen: def.Screen, Attack: def.Attack}

	if len(sc.Tiers) > 0 {
		s.Tiers = make([]*rules.Tier, 0, len(sc.Tiers))
		for i, tc := range sc.Tiers {
			t, err := tc.toTier()
			if err != nil {
				return rules.Strategy{}, fmt.Errorf("tier %d (%s): %w", i, tc.Name, err)
			}
			s.Tiers = append(s.Tiers, t)
		}
	}

	if sc.Screen.Unit != "" {
		k, err := mobileKind(sc.Screen.Unit)
		if err != nil {
			return rules.Strategy{}, fmt.Errorf("screen: %w", err)
		}
		s.Screen.Unit = k
	}
	if len(sc.Screen.Locations) > 0 {
		locs, err := coords(sc.Screen.Locations)
		if err != nil {
			return rules.Strategy{}, fmt.Errorf("screen: %w", err)
		}
		s.Screen.Locations = locs
	}
	if len(sc.Screen.Brackets) > 0 {
		s.Screen.Brackets = nil
		for _, b := range sc.Screen.Brackets {
			s.Screen.Brackets = append(s.Screen.Brackets, rules.ScreenBracket{MinBits: b.MinBits, Count: b.Count})
		}
	}

	a := sc.Attack
	s.Attack.Threshold, s.Attack.Baseline = a.Threshold, a.Baseline
	s.Attack.Base, s.Attack.Slope = a.Base, a.Slope
	if a.Count > 0 {
		s.Attack.Count = a.Count
	}
	if len(a.Choices) > 0 {
		s.Attack.Choices = nil
		for _, c := range a.Choices {
			k, err := mobileKind(c.Unit)
			if err != nil {
				return rules.Strategy{}, fmt.Errorf("attack: %w", err)
			}
			s.Attack.Choices = append(s.Attack.Choices, rules.AttackChoice{Unit: k, Weight: c.Weight})
		}
	}
	if len(a.Launch) > 0 {
		locs, err := coords(a.Launch)
		if err != nil {
			return rules.Strategy{}, fmt.Errorf("attack: %w", err)
		}
		s.Attack.Launch = locs
	}
	return s, nil
}

func (tc TierConfig) toTier() (*rules.Tier, error) {
	kind, err := model.ParseUnitKind(tc.Unit)
	if err != nil {
		return nil, err
	}
	locs, err := coords(tc.Locations)
	if err != nil {
		return nil, err
	}
	t := &rules.Tier{
		Name:      tc.Name,
		Unit:      kind,
		Locations: locs,
		MinTurn:   tc.MinTurn,
		MaxTurn:   tc.MaxTurn,
		When:      tc.When,
		Count:     tc.Count,
	}
	for _, ec := range tc.Expansions {
		cur := model.Cores
		if ec.Currency != "" {
			if cur, err = model.ParseCurrency(ec.Currency); err != nil {
				return nil, err
			}
		}
		el, err := coords(ec.Locations)
		if err != nil {
			return nil, err
		}
		t.Expansions = append(t.Expansions, rules.Expansion{Above: ec.Above, Currency: cur, Locations: el, Pick: ec.Pick})
	}
	if tc.Sample != nil {
		from, err := coords(tc.Sample.From)
		if err != nil {
			return nil, err
		}
		t.Sample = &rules.Sample{From: from, Count: tc.Sample.Count}
	}
	if tc.FromBreaches != nil {
		t.FromBreaches = &rules.BreachSource{OffsetY: tc.FromBreaches.OffsetY, Limit: tc.FromBreaches.Limit}
	}
	return t, nil
}

func mobileKind(name string) (model.UnitKind, error) {
	k, err := model.ParseUnitKind(name)
	if err != nil {
		return 0, err
	}
	if !k.Mobile() {
		return 0, fmt.Errorf("unit %q is not mobile", name)
	}
	return k, nil
}

func coords(pairs [][]int) ([]model.Coordinate, error) {
	out := make([]model.Coordinate, 0, len(pairs))
	for _, p := range pairs {
		if len(p) != 2 {
			return nil, fmt.Errorf("coordinate %v is not an [x, y] pair", p)
		}
		out = append(out, model.C(p[0], p[1]))
	}
	return out, nil
}
