package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/dagi345/Tutorly/internal/config"
	"github.com/dagi345/Tutorly/internal/database"
	"github.com/dagi345/Tutorly/internal/modules/lesson"
	"github.com/dagi345/Tutorly/internal/repository"
)

// One-shot sweep for cron. The in-process ticker in the api binary covers
// normal operation; this exists for deployments that prefer external
// scheduling.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	svc := lesson.NewService(db, repository.NewLessonRepository(db), repository.NewUserRepository(db))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := svc.CancelStale(ctx, cfg.SweepGrace)
	if err != nil {
		log.Fatalf("sweep: run failed err=%v", err)
	}
	log.Printf("sweep: cancelled=%d grace=%s", n, cfg.SweepGrace)
}
