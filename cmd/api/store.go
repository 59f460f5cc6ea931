package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"lessonshop/pkg/api"
	"lessonshop/pkg/config"
	"lessonshop/pkg/lesson"
	lessonmem "lessonshop/pkg/lesson/memory"
	lessonmongo "lessonshop/pkg/lesson/mongo"
	lessonpg "lessonshop/pkg/lesson/postgres"
	"lessonshop/pkg/logger"
	"lessonshop/pkg/order"
	ordermem "lessonshop/pkg/order/memory"
	ordermongo "lessonshop/pkg/order/mongo"
	orderpg "lessonshop/pkg/order/postgres"
)

type store struct {
	lessons lesson.Repository
	orders  order.Repository
	health  api.Pinger
	close   func(context.Context) error
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

// openStore connects to the configured backend. The connection is verified
// before returning so the server never starts against an absent store.
func openStore(ctx context.Context, cfg config.Config, log *logger.Logger) (*store, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		cctx, cancel := context.WithTimeout(ctx, cfg.Mongo.ConnectTimeout)
		defer cancel()
		client, err := mongo.Connect(cctx, options.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			return nil, fmt.Errorf("mongo connect: %w", err)
		}
		if err := client.Ping(cctx, readpref.Primary()); err != nil {
			client.Disconnect(context.Background())
			return nil, fmt.Errorf("mongo ping: %w", err)
		}
		log.Info(ctx, "connected to mongo", "database", cfg.Mongo.Database)
		db := client.Database(cfg.Mongo.Database)
		return &store{
			lessons: lessonmongo.New(db),
			orders:  ordermongo.New(db),
			health:  pingFunc(func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) }),
			close:   client.Disconnect,
		}, nil

	case config.DriverPostgres:
		db, err := sql.Open("postgres", cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("postgres open: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("postgres ping: %w", err)
		}
		for _, schema := range []string{lessonpg.Schema, orderpg.Schema} {
			if _, err := db.ExecContext(ctx, schema); err != nil {
				db.Close()
				return nil, fmt.Errorf("create table: %w", err)
			}
		}
		log.Info(ctx, "connected to postgres")
		return &store{
			lessons: lessonpg.New(db),
			orders:  orderpg.New(db),
			health:  pingFunc(db.PingContext),
			close:   func(context.Context) error { return db.Close() },
		}, nil

	case config.DriverMemory:
		var seed []lesson.Lesson
		if cfg.Store.Seed {
			seed = sampleLessons
		}
		lessons := lessonmem.New(seed...)
		log.Info(ctx, "using in-memory store", "lessons", len(seed))
		return &store{
			lessons: lessons,
			orders:  ordermem.New(),
			health:  lessons,
			close:   func(context.Context) error { return nil },
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

var sampleLessons = []lesson.Lesson{
	{ID: "1", Subject: "Math", Location: "Hendon", Price: 100, Spaces: 5},
	{ID: "2", Subject: "English", Location: "Colindale", Price: 80, Spaces: 5},
	{ID: "3", Subject: "Music", Location: "Brent Cross", Price: 90, Spaces: 5},
	{ID: "4", Subject: "Art", Location: "Golders Green", Price: 70, Spaces: 5},
	{ID: "5", Subject: "Science", Location: "Hendon", Price: 110, Spaces: 5},
}
