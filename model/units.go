package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Currency identifies one of the two resource pools.
type Currency byte

const (
	Cores Currency = 0 // structure currency
	Bits  Currency = 1 // mobile-unit currency
)

func (c Currency) String() string {
	if c == Bits {
		return "bits"
	}
	return "cores"
}

// ParseCurrency accepts "cores" or "bits" (case-insensitive).
func ParseCurrency(s string) (Currency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cores", "":
		return Cores, nil
	case "bits":
		return Bits, nil
	}
	return 0, fmt.Errorf("unknown currency %q", s)
}

// UnitKind is a unit role. The first three are stationary, the rest mobile.
// The order matches the index order of the game's unitInformation list.
type UnitKind byte

const (
	Wall UnitKind = iota
	Support
	Turret
	Fast
	Heavy
	Debuff
)

// AllKinds lists every kind in catalog order.
var AllKinds = [...]UnitKind{Wall, Support, Turret, Fast, Heavy, Debuff}

var kindNames = [...]string{"wall", "support", "turret", "fast", "heavy", "debuff"}

func (k UnitKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Stationary reports whether units of this kind are placed and never move.
func (k UnitKind) Stationary() bool { return k <= Turret }

// Mobile reports whether units of this kind walk toward the opposing edge.
func (k UnitKind) Mobile() bool { return k >= Fast && k <= Debuff }

// ParseUnitKind resolves a role name ("turret") to its kind.
func ParseUnitKind(s string) (UnitKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if n == s {
			return UnitKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown unit kind %q", s)
}

// UnitSpec holds the immutable properties of a unit kind.
type UnitSpec struct {
	Kind      UnitKind
	Shorthand string
	Cost      float64
	Currency  Currency
	Damage    float64
	Range     float64
}

// Catalog maps every kind to its spec. It is built once per match and
// passed to every component that needs costs, damage or range.
type Catalog struct {
	specs [len(AllKinds)]UnitSpec
}

// Spec returns the spec for k.
func (c *Catalog) Spec(k UnitKind) UnitSpec {
	if int(k) >= len(c.specs) {
		return UnitSpec{Kind: k}
	}
	return c.specs[k]
}

// Shorthand returns the wire shorthand the match server expects for k.
func (c *Catalog) Shorthand(k UnitKind) string { return c.Spec(k).Shorthand }

// KindByShorthand resolves a wire shorthand back to its kind.
func (c *Catalog) KindByShorthand(s string) (UnitKind, bool) {
	for _, spec := range c.specs {
		if spec.Shorthand == s {
			return spec.Kind, true
		}
	}
	return 0, false
}

// NewCatalog builds a catalog from specs. Kinds not present keep zero specs.
func NewCatalog(specs ...UnitSpec) *Catalog {
	c := &Catalog{}
	for i := range c.specs {
		c.specs[i].Kind = UnitKind(i)
	}
	for _, s := range specs {
		if int(s.Kind) < len(c.specs) {
			c.specs[s.Kind] = s
		}
	}
	return c
}

// DefaultCatalog mirrors the stock Terminal unit table.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		UnitSpec{Kind: Wall, Shorthand: "FF", Cost: 1, Currency: Cores},
		UnitSpec{Kind: Support, Shorthand: "EF", Cost: 4, Currency: Cores, Range: 3},
		UnitSpec{Kind: Turret, Shorthand: "DF", Cost: 3, Currency: Cores, Damage: 4, Range: 3.5},
		UnitSpec{Kind: Fast, Shorthand: "PI", Cost: 1, Currency: Bits, Damage: 1, Range: 3.5},
		UnitSpec{Kind: Heavy, Shorthand: "EI", Cost: 3, Currency: Bits, Damage: 3, Range: 4.5},
		UnitSpec{Kind: Debuff, Shorthand: "SI", Cost: 1, Currency: Bits, Damage: 20, Range: 3.5},
	)
}

// unitInformation is the subset of the game config we read.
type unitInformation struct {
	Shorthand   string   `json:"shorthand"`
	Cost        *float64 `json:"cost"`
	Cost1       *float64 `json:"cost1"`
	Cost2       *float64 `json:"cost2"`
	Damage      *float64 `json:"damage"`
	DamageI     *float64 `json:"damageI"`
	AttackRange *float64 `json:"attackRange"`
}

type gameConfig struct {
	UnitInformation []unitInformation `json:"unitInformation"`
}

// CatalogFromConfig reads the unitInformation list of the game config sent
// at match start. Entries are matched to kinds by index; missing numeric
// fields fall back to the defaults.
func CatalogFromConfig(raw []byte) (*Catalog, error) {
	var cfg gameConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal game config: %w", err)
	}
	if len(cfg.UnitInformation) < len(AllKinds) {
		return nil, fmt.Errorf("game config lists %d units, want %d", len(cfg.UnitInformation), len(AllKinds))
	}

	def := DefaultCatalog()
	specs := make([]UnitSpec, 0, len(AllKinds))
	for i, k := range AllKinds {
		info := cfg.UnitInformation[i]
		spec := def.Spec(k)
		if info.Shorthand != "" {
			spec.Shorthand = info.Shorthand
		}
		switch {
		case info.Cost != nil:
			spec.Cost = *info.Cost
		case info.Cost1 != nil && *info.Cost1 > 0:
			spec.Cost = *info.Cost1
		case info.Cost2 != nil && *info.Cost2 > 0:
			spec.Cost = *info.Cost2
		}
		switch {
		case info.Damage != nil:
			spec.Damage = *info.Damage
		case info.DamageI != nil:
			spec.Damage = *info.DamageI
		}
		if info.AttackRange != nil {
			spec.Range = *info.AttackRange
		}
		specs = append(specs, spec)
	}
	return NewCatalog(specs...), nil
}

// Unit is a single unit on the board.
type Unit struct {
	Kind   UnitKind
	Owner  int
	Coord  Coordinate
	Health float64
	ID     string
}

func (u Unit) TypeName() string { return u.Kind.String() }
