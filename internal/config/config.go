package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jspeir/battlegrid/internal/battle"
)

// Config is one battle scenario file: which mechanics run, their tunables,
// and the roster. Zero-valued tunables fall back to the engine defaults via
// ApplyDefaults, so a scenario only states what it changes.
type Config struct {
	Version   string         `yaml:"version" json:"version"`
	Seed      int64          `yaml:"seed" json:"seed"`
	Rounds    int            `yaml:"rounds" json:"rounds"`
	Mechanics MechanicsBlock `yaml:"mechanics" json:"mechanics"`
	Roster    []UnitEntry    `yaml:"roster" json:"roster"`
}

// MechanicsBlock mirrors battle.MechanicsConfig in file form. A missing
// block disables its mechanic; dependency closure may still pull one in.
type MechanicsBlock struct {
	Facing      bool            `yaml:"facing" json:"facing"`
	Phalanx     *PhalanxBlock   `yaml:"phalanx" json:"phalanx,omitempty"`
	LineOfSight *LoSBlock       `yaml:"line_of_sight" json:"line_of_sight,omitempty"`
	Flanking    bool            `yaml:"flanking" json:"flanking"`
	Riposte     bool            `yaml:"riposte" json:"riposte"`
	ArmorShred  *ShredBlock     `yaml:"armor_shred" json:"armor_shred,omitempty"`
	Contagion   *ContagionBlock `yaml:"contagion" json:"contagion,omitempty"`
}

type PhalanxBlock struct {
	MinNeighbors *int `yaml:"min_neighbors" json:"min_neighbors,omitempty"`
}

type LoSBlock struct {
	ArcFire             bool     `yaml:"arc_fire" json:"arc_fire"`
	ArcFirePenalty      *float64 `yaml:"arc_fire_penalty" json:"arc_fire_penalty,omitempty"`
	RequireFiringArc    *bool    `yaml:"require_firing_arc" json:"require_firing_arc,omitempty"`
	TrueSightIgnoresArc *bool    `yaml:"true_sight_ignores_arc" json:"true_sight_ignores_arc,omitempty"`
}

type ShredBlock struct {
	MaxShredPercent *float64 `yaml:"max_shred_percent" json:"max_shred_percent,omitempty"`
	ShredPerAttack  *int     `yaml:"shred_per_attack" json:"shred_per_attack,omitempty"`
	DecayPerTurn    int      `yaml:"decay_per_turn" json:"decay_per_turn"`
}

type ContagionBlock struct {
	SpreadChances      map[string]float64 `yaml:"spread_chances" json:"spread_chances,omitempty"`
	PhalanxSpreadBonus *float64           `yaml:"phalanx_spread_bonus" json:"phalanx_spread_bonus,omitempty"`
}

// UnitEntry is one roster line. Instance ids are assigned at build time:
// R0, R1, ... for red and B0, B1, ... for blue, in roster order.
type UnitEntry struct {
	ID     string `yaml:"id" json:"id"`
	Team   string `yaml:"team" json:"team"` // red | blue
	X      int    `yaml:"x" json:"x"`
	Y      int    `yaml:"y" json:"y"`
	Facing string `yaml:"facing" json:"facing"` // north | east | south | west
	HP     int    `yaml:"hp" json:"hp"`
	Armor  int    `yaml:"armor" json:"armor"`
	Range  int    `yaml:"range" json:"range"`

	Effects    []EffectEntry `yaml:"effects" json:"effects,omitempty"`
	Immunities []string      `yaml:"immunities" json:"immunities,omitempty"`
	Sight      *SightBlock   `yaml:"sight" json:"sight,omitempty"`
}

type EffectEntry struct {
	Type     string `yaml:"type" json:"type"`
	Duration int    `yaml:"duration" json:"duration"`
}

type SightBlock struct {
	Transparent  bool    `yaml:"transparent" json:"transparent"`
	CanArcFire   bool    `yaml:"can_arc_fire" json:"can_arc_fire"`
	HasTrueSight bool    `yaml:"has_true_sight" json:"has_true_sight"`
	IgnoresArc   bool    `yaml:"ignores_arc" json:"ignores_arc"`
	FiringArc    float64 `yaml:"firing_arc" json:"firing_arc"`
}

// Default returns the built-in scenario: everything enabled, a 3v3 roster
// with one burning unit so contagion has something to spread.
func Default() *Config {
	c := &Config{
		Version: "1",
		Seed:    1,
		Rounds:  10,
		Mechanics: MechanicsBlock{
			Facing:      true,
			Phalanx:     &PhalanxBlock{},
			LineOfSight: &LoSBlock{ArcFire: true},
			ArmorShred:  &ShredBlock{},
			Contagion:   &ContagionBlock{},
		},
		Roster: []UnitEntry{
			{ID: "spearman", Team: "red", X: 2, Y: 3},
			{ID: "spearman", Team: "red", X: 2, Y: 4},
			{ID: "spearman", Team: "red", X: 2, Y: 5},
			{ID: "raider", Team: "blue", X: 9, Y: 3, Effects: []EffectEntry{{Type: "fire", Duration: 5}}},
			{ID: "raider", Team: "blue", X: 9, Y: 4},
			{ID: "raider", Team: "blue", X: 9, Y: 5},
		},
	}
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills zero-valued scenario fields.
func (c *Config) ApplyDefaults() {
	if c.Version == "" {
		c.Version = "1"
	}
	if c.Seed == 0 {
		c.Seed = 1
	}
	if c.Rounds == 0 {
		c.Rounds = 10
	}
	for i := range c.Roster {
		e := &c.Roster[i]
		if e.Facing == "" {
			if e.Team == "blue" {
				e.Facing = "west"
			} else {
				e.Facing = "east"
			}
		}
		if e.HP == 0 {
			e.HP = 10
		}
		if e.Range == 0 {
			e.Range = 6
		}
	}
}

// Load reads and validates a scenario file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}
	return &c, nil
}

// Validate rejects roster entries the engine could not represent.
func (c *Config) Validate() error {
	if len(c.Roster) == 0 {
		return fmt.Errorf("roster is empty")
	}
	for i, e := range c.Roster {
		if e.ID == "" {
			return fmt.Errorf("roster[%d]: missing id", i)
		}
		if _, err := parseTeam(e.Team); err != nil {
			return fmt.Errorf("roster[%d] %s: %w", i, e.ID, err)
		}
		if _, err := parseFacing(e.Facing); err != nil {
			return fmt.Errorf("roster[%d] %s: %w", i, e.ID, err)
		}
		if e.HP < 0 || e.Armor < 0 || e.Range < 0 {
			return fmt.Errorf("roster[%d] %s: negative stat", i, e.ID)
		}
	}
	return nil
}

// BuildMechanics bridges the file block to the engine's config, filling
// engine defaults for any tunable the file left out.
func (m MechanicsBlock) BuildMechanics() battle.MechanicsConfig {
	cfg := battle.MechanicsConfig{
		Facing:   m.Facing,
		Flanking: m.Flanking,
		Riposte:  m.Riposte,
	}
	if m.Phalanx != nil {
		p := battle.DefaultPhalanxConfig()
		if m.Phalanx.MinNeighbors != nil {
			p.MinNeighbors = *m.Phalanx.MinNeighbors
		}
		cfg.Phalanx = &p
	}
	if m.LineOfSight != nil {
		l := battle.DefaultLoSConfig()
		l.ArcFireEnabled = m.LineOfSight.ArcFire
		if m.LineOfSight.ArcFirePenalty != nil {
			l.ArcFirePenalty = *m.LineOfSight.ArcFirePenalty
		}
		if m.LineOfSight.RequireFiringArc != nil {
			l.RequireFiringArc = *m.LineOfSight.RequireFiringArc
		}
		if m.LineOfSight.TrueSightIgnoresArc != nil {
			l.TrueSightIgnoresArc = *m.LineOfSight.TrueSightIgnoresArc
		}
		cfg.LineOfSight = &l
	}
	if m.ArmorShred != nil {
		s := battle.DefaultShredConfig()
		if m.ArmorShred.MaxShredPercent != nil {
			s.MaxShredPercent = *m.ArmorShred.MaxShredPercent
		}
		if m.ArmorShred.ShredPerAttack != nil {
			s.ShredPerAttack = *m.ArmorShred.ShredPerAttack
		}
		s.DecayPerTurn = m.ArmorShred.DecayPerTurn
		cfg.ArmorShred = &s
	}
	if m.Contagion != nil {
		co := battle.DefaultContagionConfig()
		if len(m.Contagion.SpreadChances) > 0 {
			co.SpreadChances = make(map[battle.EffectType]float64, len(m.Contagion.SpreadChances))
			for k, v := range m.Contagion.SpreadChances {
				co.SpreadChances[battle.EffectType(k)] = v
			}
		}
		if m.Contagion.PhalanxSpreadBonus != nil {
			co.PhalanxSpreadBonus = *m.Contagion.PhalanxSpreadBonus
		}
		cfg.Contagion = &co
	}
	return cfg
}

// BuildUnits turns the roster into engine units with assigned instance ids.
func (c *Config) BuildUnits() ([]battle.Unit, error) {
	units := make([]battle.Unit, 0, len(c.Roster))
	counts := map[battle.Team]int{}
	prefix := map[battle.Team]string{battle.TeamRed: "R", battle.TeamBlue: "B"}

	for i, e := range c.Roster {
		team, err := parseTeam(e.Team)
		if err != nil {
			return nil, fmt.Errorf("roster[%d] %s: %w", i, e.ID, err)
		}
		facing, err := parseFacing(e.Facing)
		if err != nil {
			return nil, fmt.Errorf("roster[%d] %s: %w", i, e.ID, err)
		}

		pos := battle.Position{X: e.X, Y: e.Y}
		u := battle.Unit{
			ID:         e.ID,
			InstanceID: fmt.Sprintf("%s%d", prefix[team], counts[team]),
			Team:       team,
			Pos:        &pos,
			Facing:     facing,
			CurrentHP:  e.HP,
			MaxHP:      e.HP,
			Alive:      e.HP > 0,
			Armor:      e.Armor,
			Range:      e.Range,
		}
		counts[team]++

		for _, eff := range e.Effects {
			u.StatusEffects = append(u.StatusEffects, battle.StatusEffect{
				Type:     battle.EffectType(eff.Type),
				Duration: eff.Duration,
			})
		}
		if len(e.Immunities) > 0 {
			profile := &battle.ContagionProfile{}
			for _, im := range e.Immunities {
				profile.Immunities = append(profile.Immunities, battle.EffectType(im))
			}
			u.Contagion = profile
		}
		if e.Sight != nil {
			u.Sight = &battle.SightProfile{
				Transparent:  e.Sight.Transparent,
				CanArcFire:   e.Sight.CanArcFire,
				HasTrueSight: e.Sight.HasTrueSight,
				IgnoresArc:   e.Sight.IgnoresArc,
				FiringArc:    e.Sight.FiringArc,
			}
		}
		units = append(units, u)
	}
	return units, nil
}

// NewSim assembles a ready-to-run simulation from the scenario.
func (c *Config) NewSim(extra ...battle.SimOption) (*battle.Sim, error) {
	units, err := c.BuildUnits()
	if err != nil {
		return nil, err
	}
	opts := []battle.SimOption{
		battle.WithSeed(c.Seed),
		battle.WithMechanics(c.Mechanics.BuildMechanics()),
		battle.WithUnits(units...),
	}
	opts = append(opts, extra...)
	return battle.NewSim(opts...)
}

func parseTeam(s string) (battle.Team, error) {
	switch s {
	case "red":
		return battle.TeamRed, nil
	case "blue":
		return battle.TeamBlue, nil
	default:
		return 0, fmt.Errorf("unknown team %q", s)
	}
}

func parseFacing(s string) (battle.Facing, error) {
	switch s {
	case "north":
		return battle.FacingNorth, nil
	case "east":
		return battle.FacingEast, nil
	case "south":
		return battle.FacingSouth, nil
	case "west":
		return battle.FacingWest, nil
	default:
		return 0, fmt.Errorf("unknown facing %q", s)
	}
}
