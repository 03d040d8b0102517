package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/jspeir/battlegrid/internal/battle"
	"github.com/jspeir/battlegrid/internal/config"
	"github.com/jspeir/battlegrid/internal/view"
)

func main() {
	var scenarioPath string
	var seed int64
	flag.StringVar(&scenarioPath, "config", "", "scenario YAML file (built-in default when empty)")
	flag.Int64Var(&seed, "seed", 0, "override the scenario seed (0 keeps it)")
	flag.Parse()

	cfg := config.Default()
	if scenarioPath != "" {
		loaded, err := config.Load(scenarioPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}

	var extra []battle.SimOption
	if seed != 0 {
		extra = append(extra, battle.WithSeed(seed))
	}
	sim, err := cfg.NewSim(extra...)
	if err != nil {
		log.Fatal(err)
	}

	v := view.New(sim, cfg.Rounds)
	ebiten.SetWindowTitle("Battlegrid")
	ebiten.SetWindowSize(v.WindowSize())
	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}
