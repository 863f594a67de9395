package rules

import (
	"strings"
	"testing"

	"github.com/expr-lang/expr"
)

func TestGateSource(t *testing.T) {
	tests := []struct {
		name string
		tier Tier
		want string
	}{
		{"empty", Tier{}, "true"},
		{"min", Tier{MinTurn: 2}, "Turn >= 2"},
		{"max", Tier{MaxTurn: 4}, "Turn <= 4"},
		{"window", Tier{MinTurn: 2, MaxTurn: 4}, "Turn >= 2 && Turn <= 4"},
		{"when", Tier{MinTurn: 2, When: " Cores() > 20 "}, "Turn >= 2 && (Cores() > 20)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gateSource(&tt.tier); got != tt.want {
				t.Errorf("gateSource = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStarterTiersCompile(t *testing.T) {
	tiers, err := compileTiers(StarterTiers())
	if err != nil {
		t.Fatalf("compileTiers(StarterTiers()) failed: %v", err)
	}
	if len(tiers) != 9 {
		t.Errorf("expected 9 tiers, got %d", len(tiers))
	}
	for _, tier := range tiers {
		if tier.program == nil {
			t.Errorf("tier %q has no program", tier.Name)
		}
		if _, err := expr.Compile(tier.GateSrc, expr.Env(RuleEnv{}), expr.AsBool()); err != nil {
			t.Errorf("tier %q gate %q does not compile: %v", tier.Name, tier.GateSrc, err)
		}
	}
	if tiers[0].Name != "support-spine" {
		t.Errorf("tier order changed: first is %q", tiers[0].Name)
	}
}

func TestCompileTiersSortsExpansions(t *testing.T) {
	tier := &Tier{
		Name: "t",
		Expansions: []Expansion{
			{Above: 40}, {Above: 10}, {Above: 20},
		},
	}
	if _, err := compileTiers([]*Tier{tier}); err != nil {
		t.Fatal(err)
	}
	for i, want := range []float64{10, 20, 40} {
		if tier.Expansions[i].Above != want {
			t.Errorf("expansion %d: Above = %v, want %v", i, tier.Expansions[i].Above, want)
		}
	}
}

func TestCompileTiersRejectsBadCondition(t *testing.T) {
	tests := []string{
		"Cores( > 1",
		"NoSuchHelper()",
		"Cores()", // not a bool
	}
	for _, when := range tests {
		_, err := compileTiers([]*Tier{{Name: "bad", When: when}})
		if err == nil {
			t.Errorf("When %q: expected compile error", when)
			continue
		}
		if !strings.Contains(err.Error(), `compile tier "bad"`) {
			t.Errorf("error %q does not name the tier", err)
		}
	}
}
