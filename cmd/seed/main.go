package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/joho/godotenv"

	"github.com/dagi345/Tutorly/internal/config"
	"github.com/dagi345/Tutorly/internal/database"
	"github.com/dagi345/Tutorly/internal/domain"
	"github.com/dagi345/Tutorly/internal/pkg/slots"
	"github.com/dagi345/Tutorly/internal/repository"
)

var subjects = [][]string{
	{"math", "physics"},
	{"english", "ielts"},
	{"chemistry"},
	{"biology", "chemistry"},
	{"computer science", "math"},
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM messages")
	db.Exec("DELETE FROM reviews")
	db.Exec("DELETE FROM lessons")
	db.Exec("DELETE FROM tutor_profiles")
	db.Exec("DELETE FROM users")

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	profiles := repository.NewTutorProfileRepository(db)
	lessons := repository.NewLessonRepository(db)
	reviews := repository.NewReviewRepository(db)

	log.Println("Creating users...")
	adminUser := &domain.User{
		ClerkID: "clerk_admin",
		Role:    domain.RoleAdmin,
		Name:    "Admin",
		Email:   "admin@tutorly.dev",
	}
	if err := users.Create(ctx, adminUser); err != nil {
		log.Fatal(err)
	}

	students := make([]*domain.User, 0, 3)
	for i := 0; i < 3; i++ {
		s := &domain.User{
			ClerkID: fmt.Sprintf("clerk_student_%d", i+1),
			Role:    domain.RoleStudent,
			Name:    fmt.Sprintf("Student %d", i+1),
			Email:   fmt.Sprintf("student%d@tutorly.dev", i+1),
		}
		if err := users.Create(ctx, s); err != nil {
			log.Fatal(err)
		}
		if err := users.AddCredits(ctx, s.ID, 10000); err != nil {
			log.Fatal(err)
		}
		students = append(students, s)
	}

	log.Println("Creating tutors...")
	now := time.Now().UTC()
	tutors := make([]*domain.User, 0, len(subjects))
	for i, subj := range subjects {
		tu := &domain.User{
			ClerkID: fmt.Sprintf("clerk_tutor_%d", i+1),
			Role:    domain.RoleTutor,
			Name:    fmt.Sprintf("Tutor %d", i+1),
			Email:   fmt.Sprintf("tutor%d@tutorly.dev", i+1),
		}
		if err := users.Create(ctx, tu); err != nil {
			log.Fatal(err)
		}
		tutors = append(tutors, tu)

		ranges := []slots.Range{
			{Weekday: time.Weekday(1 + i%5), StartHour: 9, EndHour: 12},
			{Weekday: time.Weekday(1 + (i+2)%5), StartHour: 15, EndHour: 18},
		}
		p := &domain.TutorProfile{
			UserID:       tu.ID,
			Subjects:     subj,
			HourlyRate:   int64(2000 + 500*i),
			Bio:          fmt.Sprintf("Experienced %s tutor.", subj[0]),
			Availability: slots.Materialize(ranges, now),
			IsApproved:   i != len(subjects)-1, // keep one in the approval queue
		}
		if err := profiles.Create(ctx, p); err != nil {
			log.Fatal(err)
		}
	}

	log.Println("Creating lessons and reviews...")
	for i, tu := range tutors[:3] {
		student := students[i%len(students)]
		past := now.Truncate(time.Hour).Add(-time.Duration(24*(i+1)) * time.Hour)
		l := &domain.Lesson{
			TutorID:         tu.ID,
			StudentID:       student.ID,
			Datetime:        past,
			DurationMinutes: 60,
			Cost:            int64(2000 + 500*i),
			Status:          domain.LessonCompleted,
		}
		if err := lessons.Create(ctx, l); err != nil {
			log.Fatal(err)
		}

		rv := &domain.Review{
			LessonID:  l.ID,
			TutorID:   tu.ID,
			StudentID: student.ID,
			Rating:    3 + rand.Intn(3),
			Comment:   "Seeded review.",
		}
		if err := reviews.Create(ctx, rv); err != nil {
			log.Fatal(err)
		}
		if err := profiles.SetRating(ctx, tu.ID, float64(rv.Rating)); err != nil {
			log.Fatal(err)
		}
	}

	log.Println("Seed complete.")
}
