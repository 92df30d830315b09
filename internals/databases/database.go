package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"schoolhub_backend/internals/configs"
)

var DB *gorm.DB

func ConnectDB() {
	log := configs.Logger("database")
	log.Info().Msg("[DB] connecting to PostgreSQL")

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=schoolhub&options=-c statement_timeout=5000",
		configs.GetEnv("DB_USER"),
		configs.GetEnv("DB_PASSWORD"),
		configs.GetEnv("DB_HOST", "localhost"),
		configs.GetEnv("DB_PORT", "5432"),
		configs.GetEnv("DB_NAME"),
		configs.GetEnv("DB_SSLMODE", "disable"),
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:         configs.NewGormLogger(),
		TranslateError: true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("[DB] connection failed")
	}
	DB = db
	log.Info().Msg("[DB] connected")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		configs.Logger("database").Error().Err(err).Msg("[DB] pool tune")
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		sqlDB, err := DB.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			configs.Logger("database").Warn().Err(err).Msg("[DB] warm-up ping")
		}
	}()
}
