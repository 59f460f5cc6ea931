package main

import (
	"context"
	"testing"

	"lessonshop/pkg/config"
	"lessonshop/pkg/logger"
)

func TestOpenMemoryStore(t *testing.T) {
	var cfg config.Config
	cfg.Store.Driver = config.DriverMemory
	cfg.Store.Seed = true

	st, err := openStore(context.Background(), cfg, logger.NewNop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer st.close(context.Background())

	lessons, err := st.lessons.List(context.Background())
	if err != nil || len(lessons) != len(sampleLessons) {
		t.Fatalf("expected seeded lessons, got %d err=%v", len(lessons), err)
	}
	if err := st.health.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestOpenUnknownStore(t *testing.T) {
	var cfg config.Config
	cfg.Store.Driver = "cassandra"
	if _, err := openStore(context.Background(), cfg, logger.NewNop()); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
