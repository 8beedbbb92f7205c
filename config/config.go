package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server
	Database     Database
	Engine       Engine
	GeminiApiKey string
	JWTSecret    string
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Engine holds the attempt-engine knobs. SubmitGraceSeconds is the window
// after the deadline during which the sweeper holds off, giving in-flight
// client submits a chance to win before the server closes the attempt.
type Engine struct {
	SubmitGraceSeconds       int
	SweepIntervalSeconds     int
	PracticeQuestionCount    int
	PracticeTimeLimitMinutes int
	PracticePassPercent      float64
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SUBMIT_GRACE_SECONDS", 30)
	viper.SetDefault("SWEEP_INTERVAL_SECONDS", 15)
	viper.SetDefault("PRACTICE_QUESTION_COUNT", 10)
	viper.SetDefault("PRACTICE_TIME_LIMIT_MINUTES", 10)
	viper.SetDefault("PRACTICE_PASS_PERCENT", 60.0)

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Engine.SubmitGraceSeconds = viper.GetInt("SUBMIT_GRACE_SECONDS")
	config.Engine.SweepIntervalSeconds = viper.GetInt("SWEEP_INTERVAL_SECONDS")
	config.Engine.PracticeQuestionCount = viper.GetInt("PRACTICE_QUESTION_COUNT")
	config.Engine.PracticeTimeLimitMinutes = viper.GetInt("PRACTICE_TIME_LIMIT_MINUTES")
	config.Engine.PracticePassPercent = viper.GetFloat64("PRACTICE_PASS_PERCENT")

	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")
	config.JWTSecret = viper.GetString("JWT_SECRET")

	log.Info().Str("port", config.Server.Port).Str("db_host", config.Database.Host).Msg("Config loaded")
	return &config, nil
}
