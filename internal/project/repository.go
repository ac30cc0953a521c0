package project

import "gorm.io/gorm"

type Repository interface {
	Save(db *gorm.DB, p *Project) error
	FindByID(db *gorm.DB, id uint) (*Project, error)
	ListByOwner(db *gorm.DB, ownerID uint) ([]Project, error)
	Delete(db *gorm.DB, id uint) error

	SaveMilestone(db *gorm.DB, m *Milestone) error
	ListMilestones(db *gorm.DB, projectID uint) ([]Milestone, error)
	FindMilestone(db *gorm.DB, id uint) (*Milestone, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Save(db *gorm.DB, p *Project) error {
	return db.Save(p).Error
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*Project, error) {
	var p Project
	err := db.Preload("Milestones").First(&p, id).Error
	return &p, err
}

func (r *repositoryImpl) ListByOwner(db *gorm.DB, ownerID uint) ([]Project, error) {
	var list []Project
	err := db.Where("owner_id = ?", ownerID).Preload("Milestones").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) Delete(db *gorm.DB, id uint) error {
	return db.Delete(&Project{}, id).Error
}

func (r *repositoryImpl) SaveMilestone(db *gorm.DB, m *Milestone) error {
	return db.Save(m).Error
}

func (r *repositoryImpl) ListMilestones(db *gorm.DB, projectID uint) ([]Milestone, error) {
	var list []Milestone
	err := db.Where("project_id = ?", projectID).Find(&list).Error
	return list, err
}

func (r *repositoryImpl) FindMilestone(db *gorm.DB, id uint) (*Milestone, error) {
	var m Milestone
	err := db.First(&m, id).Error
	return &m, err
}
