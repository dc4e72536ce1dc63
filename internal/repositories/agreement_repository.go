package repositories

import (
	"time"

	"github.com/Akinkuowo/Swophere/internal/models"
	"gorm.io/gorm"
)

// AgreementRepository defines the interface for agreement data operations
type AgreementRepository interface {
	CreateAgreement(agreement *models.SwopAgreement) error
	GetAgreementsByUser(username string) ([]models.SwopAgreement, error)
	GetBySwopID(swopID string) (*models.SwopAgreement, error)
	Accept(swopID string) (bool, error)
	Decline(swopID string) error
}

type postgresAgreementRepository struct {
	db *gorm.DB
}

// NewPostgresAgreementRepository creates an AgreementRepository backed by PostgreSQL
func NewPostgresAgreementRepository(db *gorm.DB) AgreementRepository {
	return &postgresAgreementRepository{db: db}
}

func (r *postgresAgreementRepository) CreateAgreement(agreement *models.SwopAgreement) error {
	return r.db.Create(agreement).Error
}

// GetAgreementsByUser returns every agreement the user is party to,
// newest-created first.
func (r *postgresAgreementRepository) GetAgreementsByUser(username string) ([]models.SwopAgreement, error) {
	var agreements []models.SwopAgreement
	err := r.db.Where("from_user = ? OR to_user = ?", username, username).
		Order("created_at DESC").
		Find(&agreements).Error
	return agreements, err
}

func (r *postgresAgreementRepository) GetBySwopID(swopID string) (*models.SwopAgreement, error) {
	var agreement models.SwopAgreement
	if err := r.db.Where("swop_id = ?", swopID).First(&agreement).Error; err != nil {
		return nil, err
	}
	return &agreement, nil
}

// Accept flips the agreement to accepted. The update is conditioned on
// to_user_accepted still being false so that two concurrent accepts cannot
// both land; the loser sees changed == false.
func (r *postgresAgreementRepository) Accept(swopID string) (bool, error) {
	res := r.db.Model(&models.SwopAgreement{}).
		Where("swop_id = ? AND to_user_accepted = ?", swopID, false).
		Updates(map[string]interface{}{
			"to_user_accepted": true,
			"agreement_status": models.AgreementStatusAccepted,
			"updated_at":       time.Now(),
		})
	return res.RowsAffected > 0, res.Error
}

// Decline sets the agreement status to declined. There is no guard on the
// current status: re-declining, or declining an accepted agreement, goes
// through.
func (r *postgresAgreementRepository) Decline(swopID string) error {
	return r.db.Model(&models.SwopAgreement{}).
		Where("swop_id = ?", swopID).
		Updates(map[string]interface{}{
			"agreement_status": models.AgreementStatusDeclined,
			"updated_at":       time.Now(),
		}).Error
}
