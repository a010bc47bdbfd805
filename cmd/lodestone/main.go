package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/lodestone-lang/lodestone/internal/compiler"
	"github.com/lodestone-lang/lodestone/internal/config"
	"github.com/lodestone-lang/lodestone/internal/diag"
)

// The frontend is developed separately; this binary currently validates
// a project configuration and reports what a compilation would use.
func main() {
	if err := run(os.Args[1:]); err != nil {
		diag.Render(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	path := "lodestone.yaml"
	verbose := false
	for _, a := range args {
		switch a {
		case "-v", "--verbose":
			verbose = true
		case "-h", "--help":
			usage()
			return nil
		default:
			path = a
		}
	}

	var cfg *config.Config
	if _, err := os.Stat(path); err == nil {
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}
	} else {
		cfg = config.Default()
	}

	log := zap.NewNop()
	if verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer l.Sync()
		log = l
	}

	ctx := compiler.New(cfg, log)
	fmt.Printf("lodestone session %s\n", ctx.Session())
	fmt.Printf("  entity tag prefix:  %s\n", cfg.EntityTag)
	fmt.Printf("  scoreboard prefix:  %s\n", cfg.ScoreboardPrefix)
	fmt.Printf("  summoned entity:    %s\n", cfg.EntityType)
	fmt.Printf("  spawn position:     %s\n", cfg.EntityPos)
	fmt.Printf("  target game:        %s\n", cfg.GameVersion)
	return nil
}

func usage() {
	fmt.Println("usage: lodestone [-v] [config.yaml]")
	fmt.Println("Validates a lodestone.yaml project configuration.")
}
