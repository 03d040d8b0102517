package battle

// Presets are the named starting configurations battles are normally built
// from. Each call returns a fresh value: presets are never shared or
// mutated in place.

// PresetAllDisabled disables every mechanic. Processing any phase is then a
// pure passthrough.
func PresetAllDisabled() MechanicsConfig {
	return MechanicsConfig{}
}

// PresetAllEnabled enables every implemented mechanic with default tunables,
// arc fire included.
func PresetAllEnabled() MechanicsConfig {
	los := DefaultLoSConfig()
	los.ArcFireEnabled = true
	phalanx := DefaultPhalanxConfig()
	shred := DefaultShredConfig()
	contagion := DefaultContagionConfig()
	return MechanicsConfig{
		Facing:      true,
		Phalanx:     &phalanx,
		LineOfSight: &los,
		ArmorShred:  &shred,
		Contagion:   &contagion,
	}
}

// PresetSkirmish is the early-tier subset: facing, direct-fire line of
// sight, and armor shred. No formations, no contagion, no arc fire.
func PresetSkirmish() MechanicsConfig {
	los := DefaultLoSConfig()
	shred := DefaultShredConfig()
	return MechanicsConfig{
		Facing:      true,
		LineOfSight: &los,
		ArmorShred:  &shred,
	}
}
