package repository

import (
	"time"

	"github.com/ankit-karki-11/smarttest/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttemptRepository interface {
	Create(attempt *model.Attempt) error
	Update(attempt *model.Attempt) error
	FindByID(id uint) (*model.Attempt, error)
	FindByIDWithTest(id uint) (*model.Attempt, error)
	// FindByIDForUpdate loads the attempt under a row-level exclusive lock.
	// Must run inside the given transaction.
	FindByIDForUpdate(tx *gorm.DB, id uint) (*model.Attempt, error)
	FindActiveByStudentAndTest(studentID, testID uint) (*model.Attempt, error)
	// FindOverdue returns in_progress attempts whose deadline (plus the
	// sweeper's grace) passed before the cutoff.
	FindOverdue(cutoff time.Time) ([]model.Attempt, error)
	FindAllByTestAndStudent(testID, studentID uint) ([]model.Attempt, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Create(attempt *model.Attempt) error {
	return r.db.Create(attempt).Error
}

func (r *attemptRepository) Update(attempt *model.Attempt) error {
	return r.db.Save(attempt).Error
}

func (r *attemptRepository) FindByID(id uint) (*model.Attempt, error) {
	var attempt model.Attempt
	if err := r.db.First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindByIDWithTest(id uint) (*model.Attempt, error) {
	var attempt model.Attempt
	if err := r.db.Preload("Test").First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindByIDForUpdate(tx *gorm.DB, id uint) (*model.Attempt, error) {
	var attempt model.Attempt
	q := tx
	// sqlite has no FOR UPDATE; its single-writer lock serializes anyway.
	if tx.Dialector.Name() != "sqlite" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindActiveByStudentAndTest(studentID, testID uint) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.db.
		Where("student_id = ? AND test_id = ? AND status = ?", studentID, testID, model.AttemptInProgress).
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindOverdue(cutoff time.Time) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.db.
		Where("status = ? AND deadline < ?", model.AttemptInProgress, cutoff).
		Order("deadline ASC").
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *attemptRepository) FindAllByTestAndStudent(testID, studentID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.db.
		Where("test_id = ? AND student_id = ?", testID, studentID).
		Order("started_at DESC").
		Find(&attempts).Error
	return attempts, err
}
