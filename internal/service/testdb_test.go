package service

import (
	"fmt"
	"testing"

	"github.com/ankit-karki-11/smarttest/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an isolated in-memory database with the full schema.
// Connections are capped at one so every goroutine sees the same database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Topic{},
		&model.Question{},
		&model.Option{},
		&model.Test{},
		&model.Attempt{},
		&model.Answer{},
	))
	return db
}

// seedPool creates a topic with n pool questions at the given level, each
// with four options of which the first is correct. Returns the topic id.
func seedPool(t *testing.T, db *gorm.DB, n int, level string) uint {
	t.Helper()

	topic := model.Topic{Title: fmt.Sprintf("Topic %s %d", level, n)}
	require.NoError(t, db.Create(&topic).Error)

	for i := 0; i < n; i++ {
		q := model.Question{
			TopicID: topic.ID,
			Text:    fmt.Sprintf("Pool question %d", i+1),
			Level:   level,
			Marks:   1,
			Options: []model.Option{
				{Text: "correct", IsCorrect: true},
				{Text: "wrong a"},
				{Text: "wrong b"},
				{Text: "wrong c"},
			},
		}
		require.NoError(t, db.Create(&q).Error)
	}
	return topic.ID
}

// seedMCQTest creates a topic and a formal MCQ test with n questions worth
// one mark each. The first option of every question is the correct one.
func seedMCQTest(t *testing.T, db *gorm.DB, n int, timeLimitMinutes int) *model.Test {
	t.Helper()

	topic := model.Topic{Title: fmt.Sprintf("Test topic %d-%d", n, timeLimitMinutes)}
	require.NoError(t, db.Create(&topic).Error)

	test := model.Test{
		Title:            fmt.Sprintf("Formal test %d-%d", n, timeLimitMinutes),
		TopicID:          topic.ID,
		Level:            model.LevelMedium,
		Mode:             model.ModeMCQ,
		TimeLimitMinutes: timeLimitMinutes,
		PassPercent:      60,
	}
	for i := 0; i < n; i++ {
		test.Questions = append(test.Questions, model.Question{
			TopicID:     topic.ID,
			Text:        fmt.Sprintf("Question %d", i+1),
			Level:       model.LevelMedium,
			Marks:       1,
			OrderInTest: i + 1,
			Options: []model.Option{
				{Text: "correct", IsCorrect: true},
				{Text: "wrong"},
			},
		})
	}
	require.NoError(t, db.Create(&test).Error)
	return &test
}
