package participant

import (
	"github.com/CoFoundry/api-collaboration/internal/models"
	"gorm.io/gorm"
)

type Repository interface {
	ListByAgreement(db *gorm.DB, agreementID uint) ([]models.Participant, error)
	ListByUser(db *gorm.DB, userID uint) ([]models.Participant, error)
	FindByAgreementAndUser(db *gorm.DB, agreementID, userID uint) (*models.Participant, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) ListByAgreement(db *gorm.DB, agreementID uint) ([]models.Participant, error) {
	var list []models.Participant
	err := db.Where("agreement_id = ?", agreementID).Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ListByUser(db *gorm.DB, userID uint) ([]models.Participant, error) {
	var list []models.Participant
	err := db.Where("user_id = ?", userID).Find(&list).Error
	return list, err
}

func (r *repositoryImpl) FindByAgreementAndUser(db *gorm.DB, agreementID, userID uint) (*models.Participant, error) {
	var p models.Participant
	err := db.Where("agreement_id = ? AND user_id = ?", agreementID, userID).First(&p).Error
	return &p, err
}
