package repositories

import (
	"errors"
	"fmt"

	"care4pets/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PetRepository defines the interface for pets and their health records.
type PetRepository interface {
	Create(pet *models.Pet) error
	GetByID(id string) (*models.Pet, error)
	ListByOwner(ownerID string) ([]models.Pet, error)
	Update(pet *models.Pet) error
	Delete(id string) error

	AddVaccination(v *models.Vaccination) error
	GetVaccination(petID, id string) (*models.Vaccination, error)
	UpdateVaccination(v *models.Vaccination) error
	DeleteVaccination(petID, id string) error

	AddMedicalRecord(m *models.MedicalRecord) error
	GetMedicalRecord(petID, id string) (*models.MedicalRecord, error)
	UpdateMedicalRecord(m *models.MedicalRecord) error
	DeleteMedicalRecord(petID, id string) error
}

// GORMPetRepository is a GORM implementation of PetRepository.
type GORMPetRepository struct {
	db *gorm.DB
}

func NewGORMPetRepository(db *gorm.DB) *GORMPetRepository {
	return &GORMPetRepository{db: db}
}

func notFoundOr(err error, what, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	return fmt.Errorf("failed to get %s %s: %w", what, id, err)
}

func (r *GORMPetRepository) Create(pet *models.Pet) error {
	if pet.ID == "" {
		pet.ID = uuid.New().String()
	}
	if err := r.db.Omit("Vaccinations", "MedicalHistory").Create(pet).Error; err != nil {
		return fmt.Errorf("failed to create pet: %w", err)
	}
	return nil
}

func (r *GORMPetRepository) GetByID(id string) (*models.Pet, error) {
	var pet models.Pet
	err := r.db.
		Preload("Vaccinations", func(db *gorm.DB) *gorm.DB { return db.Order("date DESC") }).
		Preload("MedicalHistory", func(db *gorm.DB) *gorm.DB { return db.Order("date DESC") }).
		First(&pet, "id = ?", id).Error
	if err != nil {
		return nil, notFoundOr(err, "pet", id)
	}
	return &pet, nil
}

func (r *GORMPetRepository) ListByOwner(ownerID string) ([]models.Pet, error) {
	var pets []models.Pet
	if err := r.db.Where("owner_id = ?", ownerID).Order("created_at ASC").Find(&pets).Error; err != nil {
		return nil, fmt.Errorf("failed to list pets for %s: %w", ownerID, err)
	}
	return pets, nil
}

func (r *GORMPetRepository) Update(pet *models.Pet) error {
	res := r.db.Model(&models.Pet{}).Where("id = ?", pet.ID).Updates(map[string]interface{}{
		"name":    pet.Name,
		"species": pet.Species,
		"breed":   pet.Breed,
		"gender":  pet.Gender,
		"dob":     pet.DOB,
		"weight":  pet.Weight,
		"photo":   pet.Photo,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update pet %s: %w", pet.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("pet %s: %w", pet.ID, ErrNotFound)
	}
	return nil
}

// Delete removes the pet together with its vaccinations and medical records.
func (r *GORMPetRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pet_id = ?", id).Delete(&models.Vaccination{}).Error; err != nil {
			return fmt.Errorf("failed to delete vaccinations of %s: %w", id, err)
		}
		if err := tx.Where("pet_id = ?", id).Delete(&models.MedicalRecord{}).Error; err != nil {
			return fmt.Errorf("failed to delete medical records of %s: %w", id, err)
		}
		res := tx.Delete(&models.Pet{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete pet %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("pet %s: %w", id, ErrNotFound)
		}
		return nil
	})
}

func (r *GORMPetRepository) AddVaccination(v *models.Vaccination) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if err := r.db.Create(v).Error; err != nil {
		return fmt.Errorf("failed to add vaccination: %w", err)
	}
	return nil
}

func (r *GORMPetRepository) GetVaccination(petID, id string) (*models.Vaccination, error) {
	var v models.Vaccination
	if err := r.db.First(&v, "id = ? AND pet_id = ?", id, petID).Error; err != nil {
		return nil, notFoundOr(err, "vaccination", id)
	}
	return &v, nil
}

func (r *GORMPetRepository) UpdateVaccination(v *models.Vaccination) error {
	res := r.db.Model(&models.Vaccination{}).Where("id = ? AND pet_id = ?", v.ID, v.PetID).Updates(map[string]interface{}{
		"vaccine_name":  v.VaccineName,
		"date":          v.Date,
		"next_due_date": v.NextDueDate,
		"vet":           v.Vet,
		"note":          v.Note,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update vaccination %s: %w", v.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("vaccination %s: %w", v.ID, ErrNotFound)
	}
	return nil
}

func (r *GORMPetRepository) DeleteVaccination(petID, id string) error {
	res := r.db.Delete(&models.Vaccination{}, "id = ? AND pet_id = ?", id, petID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete vaccination %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("vaccination %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *GORMPetRepository) AddMedicalRecord(m *models.MedicalRecord) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if err := r.db.Create(m).Error; err != nil {
		return fmt.Errorf("failed to add medical record: %w", err)
	}
	return nil
}

func (r *GORMPetRepository) GetMedicalRecord(petID, id string) (*models.MedicalRecord, error) {
	var m models.MedicalRecord
	if err := r.db.First(&m, "id = ? AND pet_id = ?", id, petID).Error; err != nil {
		return nil, notFoundOr(err, "medical record", id)
	}
	return &m, nil
}

func (r *GORMPetRepository) UpdateMedicalRecord(m *models.MedicalRecord) error {
	res := r.db.Model(&models.MedicalRecord{}).Where("id = ? AND pet_id = ?", m.ID, m.PetID).Updates(map[string]interface{}{
		"date":      m.Date,
		"diagnosis": m.Diagnosis,
		"treatment": m.Treatment,
		"vet":       m.Vet,
		"note":      m.Note,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update medical record %s: %w", m.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("medical record %s: %w", m.ID, ErrNotFound)
	}
	return nil
}

func (r *GORMPetRepository) DeleteMedicalRecord(petID, id string) error {
	res := r.db.Delete(&models.MedicalRecord{}, "id = ? AND pet_id = ?", id, petID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete medical record %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("medical record %s: %w", id, ErrNotFound)
	}
	return nil
}
