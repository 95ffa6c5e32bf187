package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/festboard/internal/seed"
	"github.com/okian/festboard/pkg/logger"
)

func main() {
	def := seed.DefaultConfig()
	var (
		out          = flag.String("out", "festival.yaml", "Output file; .json writes JSON, anything else YAML")
		seedValue    = flag.Int64("seed", time.Now().UnixNano(), "Random seed")
		teams        = flag.Int("teams", def.Teams, "Number of teams")
		categories   = flag.Int("categories", def.Categories, "Number of categories")
		items        = flag.Int("items", def.ItemsPerCategory, "Items per category")
		participants = flag.Int("participants", def.ParticipantsPerTeam, "Participants per team")
		days         = flag.Int("days", def.Days, "Festival days")
		stages       = flag.Int("stages", def.Stages, "Stages per day")
		start        = flag.String("start", def.Start.Format("2006-01-02"), "First festival day")
		declared     = flag.Float64("declared", def.DeclaredRatio, "Share of items with a declared result")
		orphans      = flag.Int("orphans", def.Orphans, "Results pointing at removed items")
		verbose      = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	level := "info"
	if *verbose {
		level = "debug"
	}
	if err := logger.Init(logger.WithLevel(level)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	ctx := context.Background()
	log := logger.Get()

	day, err := time.Parse("2006-01-02", *start)
	if err != nil {
		log.Error(ctx, "invalid start date", logger.String("start", *start), logger.Error(err))
		os.Exit(2)
	}

	cfg := seed.Config{
		Seed:                *seedValue,
		Teams:               *teams,
		Categories:          *categories,
		ItemsPerCategory:    *items,
		ParticipantsPerTeam: *participants,
		Days:                *days,
		Stages:              *stages,
		Start:               day,
		DeclaredRatio:       *declared,
		Orphans:             *orphans,
	}
	if _, err := seed.Run(ctx, cfg, *out); err != nil {
		log.Error(ctx, "seed failed", logger.Error(err))
		os.Exit(1)
	}
}
