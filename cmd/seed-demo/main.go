package main

import (
	"context"
	"fmt"
	"time"

	"github.com/inkwell-edu/inkwell-backend/internal/config"
	"github.com/inkwell-edu/inkwell-backend/internal/database"
	"github.com/inkwell-edu/inkwell-backend/internal/logger"
	"github.com/inkwell-edu/inkwell-backend/internal/model"
	"github.com/inkwell-edu/inkwell-backend/internal/repository"
	"github.com/inkwell-edu/inkwell-backend/internal/service"
)

// Seeds a demo staff account, a batch of students, and one open exam.
// Every account gets the password "password".
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	examRepo := repository.NewExamRepository(pool)
	authService := service.NewAuthService(cfg, nil)

	hash, err := authService.HashPassword("password")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	fmt.Println("=== Seeding Demo Data ===")

	staff := &model.User{
		Name:         "Dana Whitfield",
		Email:        "dana.whitfield@inkwell.test",
		PasswordHash: hash,
		Role:         model.RoleStaff,
	}
	if err := userRepo.Create(ctx, staff); err != nil {
		log.Fatal().Err(err).Msg("Failed to create staff user")
	}
	fmt.Printf("Created staff user %s (ID %d)\n", staff.Email, staff.ID)

	names := []string{
		"Alice Trent", "Ben Okafor", "Carla Reyes", "Dev Patel", "Elena Voss",
		"Felix Huang", "Grace Lindqvist", "Hugo Marchetti", "Iris Novak", "Jonas Berg",
	}
	for i, name := range names {
		student := &model.User{
			Name:         name,
			Email:        fmt.Sprintf("student%02d@inkwell.test", i+1),
			PasswordHash: hash,
			Role:         model.RoleStudent,
		}
		if err := userRepo.Create(ctx, student); err != nil {
			log.Fatal().Err(err).Str("email", student.Email).Msg("Failed to create student")
		}
	}
	fmt.Printf("Created %d students\n", len(names))

	now := time.Now().UTC().Truncate(time.Minute)
	exam := &model.Exam{
		Title:            "Demo Essay Exam",
		Prompt:           "Describe a technology that changed how people communicate, and argue whether the change was for the better.",
		OpenAt:           now,
		CloseAt:          now.Add(24 * time.Hour),
		TimeLimitMinutes: 90,
		MaxScore:         100,
		CreatedBy:        staff.ID,
	}
	if err := examRepo.Create(ctx, exam); err != nil {
		log.Fatal().Err(err).Msg("Failed to create demo exam")
	}
	fmt.Printf("Created exam %q (%s), open until %s\n", exam.Title, exam.ID, exam.CloseAt.Format(time.RFC3339))

	fmt.Println("Done. All accounts use password \"password\".")
}
