// Command seed wipes the database and loads the demo fixture.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"questionbank/internal/config"
	mongorepo "questionbank/internal/repositories/mongo"
	"questionbank/internal/seed"
	"questionbank/internal/utils"

	"go.uber.org/zap"
)

func main() {
	fixturePath := flag.String("fixture", "", "YAML fixture to load instead of the built-in one")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger, err := utils.NewLogger(cfg.IsProduction(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	var raw []byte
	if *fixturePath != "" {
		if raw, err = os.ReadFile(*fixturePath); err != nil {
			logger.Fatal("failed to read fixture", zap.String("path", *fixturePath), zap.Error(err))
		}
	}
	fixture, err := seed.LoadFixture(raw)
	if err != nil {
		logger.Fatal("invalid fixture", zap.Error(err))
	}
	ds, err := seed.Build(fixture, time.Now().UTC())
	if err != nil {
		logger.Fatal("invalid fixture", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, err := mongorepo.NewClient(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.ConnectTimeout)
	if err != nil {
		logger.Fatal("failed to connect to mongo", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	db, err := client.DB()
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	if err := seed.Apply(ctx, db, ds); err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}

	logger.Info("database seeded",
		zap.Int("users", len(ds.Users)),
		zap.Int("subjects", len(ds.Subjects)),
		zap.Int("questions", len(ds.Questions)),
		zap.Int("answers", len(ds.Answers)),
	)
}
