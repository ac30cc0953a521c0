package agreement

import (
	"github.com/CoFoundry/api-collaboration/internal/models"
	"gorm.io/gorm"
)

type Repository interface {
	FindByID(db *gorm.DB, id uint) (*models.Agreement, error)
	ListByProject(db *gorm.DB, projectID uint) ([]models.Agreement, error)
	ListByUser(db *gorm.DB, userID uint) ([]models.Agreement, error)
	Delete(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*models.Agreement, error) {
	var a models.Agreement
	err := db.
		Preload("Participants").
		First(&a, id).Error
	return &a, err
}

func (r *repositoryImpl) ListByProject(db *gorm.DB, projectID uint) ([]models.Agreement, error) {
	var list []models.Agreement
	err := db.
		Where("project_id = ?", projectID).
		Preload("Participants").
		Order("created_at, id").
		Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ListByUser(db *gorm.DB, userID uint) ([]models.Agreement, error) {
	var list []models.Agreement
	err := db.
		Joins("JOIN participants ON participants.agreement_id = agreements.id").
		Where("participants.user_id = ? AND participants.deleted_at IS NULL", userID).
		Order("agreements.created_at, agreements.id").
		Preload("Participants").
		Find(&list).Error
	return list, err
}

func (r *repositoryImpl) Delete(db *gorm.DB, id uint) error {
	return db.Delete(&models.Agreement{}, id).Error
}
