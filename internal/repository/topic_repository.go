package repository

import (
	"github.com/ankit-karki-11/smarttest/internal/model"
	"gorm.io/gorm"
)

type TopicRepository interface {
	Create(topic *model.Topic) error
	FindByID(id uint) (*model.Topic, error)
	FindAll() ([]model.Topic, error)
}

type topicRepository struct {
	db *gorm.DB
}

func NewTopicRepository(db *gorm.DB) TopicRepository {
	return &topicRepository{db: db}
}

func (r *topicRepository) Create(topic *model.Topic) error {
	return r.db.Create(topic).Error
}

func (r *topicRepository) FindByID(id uint) (*model.Topic, error) {
	var topic model.Topic
	if err := r.db.First(&topic, id).Error; err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *topicRepository) FindAll() ([]model.Topic, error) {
	var topics []model.Topic
	if err := r.db.Order("title ASC").Find(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}
