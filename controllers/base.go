package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"Longshot/cache"
	"Longshot/engine"
	"Longshot/middlewares"
	"Longshot/models"
	"Longshot/scheduler"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	DB        *gorm.DB
	Router    *gin.Engine
	Engine    *engine.Engine
	Limiter   *middlewares.RateLimiter
	Scheduler *scheduler.Scheduler
}

// ===============================
// SECURE ADMIN SEEDING
// ===============================
func seedAdmin(db *gorm.DB) error {
	adminEmail := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	adminPassword := strings.TrimSpace(os.Getenv("ADMIN_PASSWORD"))

	// If environment vars aren't provided, do NOTHING.
	if adminEmail == "" || adminPassword == "" {
		log.Println("[seedAdmin] ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin creation.")
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", adminEmail).First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Println("[seedAdmin] Creating initial admin:", adminEmail)

		admin := models.User{
			Username: strings.Split(adminEmail, "@")[0],
			Email:    adminEmail,
			Password: adminPassword,
		}

		admin.Prepare()
		admin.IsAdmin = true

		if msgs := admin.Validate(""); len(msgs) > 0 {
			log.Printf("[seedAdmin] validation failed: %+v\n", msgs)
			return nil
		}

		_, err = admin.SaveUser(db)
		if err != nil {
			log.Printf("[seedAdmin] failed to create admin: %v\n", err)
			return err
		}

		return nil
	}

	if err == nil && !existing.IsAdmin {
		log.Println("[seedAdmin] Ensuring admin flag is set for:", adminEmail)
		return db.Model(&existing).Update("is_admin", true).Error
	}

	return err
}

// ===============================
// SERVER INITIALIZATION
// ===============================
func (server *Server) Initialize(DbUser, DbPassword, DbPort, DbHost, DbName string) {
	var dsn string

	if strings.EqualFold(os.Getenv("APP_ENV"), "production") {
		dsn = os.Getenv("DATABASE_URL")
		if dsn != "" && !strings.Contains(dsn, "sslmode=") {
			if strings.Contains(dsn, "?") {
				dsn += "&sslmode=require"
			} else {
				dsn += "?sslmode=require"
			}
		}
	} else {
		dsn = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			DbHost, DbUser, DbPassword, DbName, DbPort,
		)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Cannot connect to Postgres: %v", err)
	}
	server.DB = db

	if err := server.AutoMigrate(); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	// Redis init (safe failure)
	if err := cache.InitFromEnv(); err != nil {
		log.Printf("warning: could not connect to redis: %v", err)
	}

	if err := seedAdmin(server.DB); err != nil {
		log.Printf("error seeding admin user: %v\n", err)
	}

	points, err := engine.ParseRoundPoints(os.Getenv("BRACKET_ROUND_POINTS"))
	if err != nil {
		log.Fatalf("Invalid BRACKET_ROUND_POINTS: %v", err)
	}
	server.Engine = engine.New(server.DB, points)

	server.Scheduler = scheduler.New(server.DB)
	if err := server.Scheduler.Start(); err != nil {
		log.Printf("warning: game visibility scheduler not started: %v", err)
	}

	server.Limiter = middlewares.NewRateLimiter(middlewares.DefaultRateEvery, middlewares.DefaultRateBurst)

	server.Router = gin.Default()
	server.Router.Use(middlewares.CORSMiddleware())
	server.Router.Use(server.Limiter.Middleware())
	server.initializeRoutes()
}

// AutoMigrate creates or updates every table the app owns. The composite
// unique index on bracket_entries (bracket_id, user_id) is the storage-level
// guard against duplicate submissions.
func (server *Server) AutoMigrate() error {
	return server.DB.AutoMigrate(
		&models.User{},
		&models.Transaction{},
		&models.Team{},
		&models.Player{},
		&models.Game{},
		&models.Bet{},
		&models.PropBet{},
		&models.Notification{},
		&models.Bracket{},
		&models.BracketTeam{},
		&models.BracketGame{},
		&models.BracketEntry{},
	)
}

func (server *Server) Run(addr string) {
	log.Fatal(http.ListenAndServe(addr, server.Router))
}
