package services

import (
	"care4pets/internal/apperrors"
	"care4pets/internal/models"
	"care4pets/internal/repositories"

	"go.uber.org/zap"
)

// PetService manages a user's pets and their health records.
type PetService struct {
	pets repositories.PetRepository
	log  *zap.Logger
}

func NewPetService(pets repositories.PetRepository, log *zap.Logger) *PetService {
	return &PetService{pets: pets, log: log}
}

func (s *PetService) Create(ownerID string, pet *models.Pet) error {
	pet.ID = ""
	pet.OwnerID = ownerID
	pet.Vaccinations = nil
	pet.MedicalHistory = nil
	if err := s.pets.Create(pet); err != nil {
		return repoError(err, "Pet not found")
	}
	s.log.Info("Pet created", zap.String("pet_id", pet.ID), zap.String("owner_id", ownerID))
	return nil
}

func (s *PetService) List(ownerID string) ([]models.Pet, error) {
	pets, err := s.pets.ListByOwner(ownerID)
	if err != nil {
		return nil, repoError(err, "Pets not found")
	}
	return pets, nil
}

// Get returns a pet with its records. Pets of other users are reported as missing.
func (s *PetService) Get(actor Actor, id string) (*models.Pet, error) {
	pet, err := s.pets.GetByID(id)
	if err != nil {
		return nil, repoError(err, "Pet not found")
	}
	if !actor.owns(pet.OwnerID) {
		return nil, apperrors.NotFound("Pet not found")
	}
	return pet, nil
}

// Update overwrites the pet's profile fields.
func (s *PetService) Update(actor Actor, id string, changes *models.Pet) (*models.Pet, error) {
	pet, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}
	pet.Name = changes.Name
	pet.Species = changes.Species
	pet.Breed = changes.Breed
	pet.Gender = changes.Gender
	pet.DOB = changes.DOB
	pet.Weight = changes.Weight
	pet.Photo = changes.Photo
	if err := s.pets.Update(pet); err != nil {
		return nil, repoError(err, "Pet not found")
	}
	return pet, nil
}

// Delete removes the pet together with its vaccinations and medical history.
func (s *PetService) Delete(actor Actor, id string) error {
	if _, err := s.Get(actor, id); err != nil {
		return err
	}
	if err := s.pets.Delete(id); err != nil {
		return repoError(err, "Pet not found")
	}
	s.log.Info("Pet deleted", zap.String("pet_id", id))
	return nil
}

func (s *PetService) ListVaccinations(actor Actor, petID string) ([]models.Vaccination, error) {
	pet, err := s.Get(actor, petID)
	if err != nil {
		return nil, err
	}
	if pet.Vaccinations == nil {
		return []models.Vaccination{}, nil
	}
	return pet.Vaccinations, nil
}

func (s *PetService) AddVaccination(actor Actor, petID string, v *models.Vaccination) error {
	if _, err := s.Get(actor, petID); err != nil {
		return err
	}
	v.ID = ""
	v.PetID = petID
	return repoError(s.pets.AddVaccination(v), "Pet not found")
}

func (s *PetService) UpdateVaccination(actor Actor, petID, id string, changes *models.Vaccination) (*models.Vaccination, error) {
	if _, err := s.Get(actor, petID); err != nil {
		return nil, err
	}
	v, err := s.pets.GetVaccination(petID, id)
	if err != nil {
		return nil, repoError(err, "Vaccination not found")
	}
	v.VaccineName = changes.VaccineName
	v.Date = changes.Date
	v.NextDueDate = changes.NextDueDate
	v.Vet = changes.Vet
	v.Note = changes.Note
	if err := s.pets.UpdateVaccination(v); err != nil {
		return nil, repoError(err, "Vaccination not found")
	}
	return v, nil
}

func (s *PetService) DeleteVaccination(actor Actor, petID, id string) error {
	if _, err := s.Get(actor, petID); err != nil {
		return err
	}
	return repoError(s.pets.DeleteVaccination(petID, id), "Vaccination not found")
}

func (s *PetService) ListMedicalHistory(actor Actor, petID string) ([]models.MedicalRecord, error) {
	pet, err := s.Get(actor, petID)
	if err != nil {
		return nil, err
	}
	if pet.MedicalHistory == nil {
		return []models.MedicalRecord{}, nil
	}
	return pet.MedicalHistory, nil
}

func (s *PetService) AddMedicalRecord(actor Actor, petID string, m *models.MedicalRecord) error {
	if _, err := s.Get(actor, petID); err != nil {
		return err
	}
	m.ID = ""
	m.PetID = petID
	return repoError(s.pets.AddMedicalRecord(m), "Pet not found")
}

func (s *PetService) UpdateMedicalRecord(actor Actor, petID, id string, changes *models.MedicalRecord) (*models.MedicalRecord, error) {
	if _, err := s.Get(actor, petID); err != nil {
		return nil, err
	}
	m, err := s.pets.GetMedicalRecord(petID, id)
	if err != nil {
		return nil, repoError(err, "Medical record not found")
	}
	m.Date = changes.Date
	m.Diagnosis = changes.Diagnosis
	m.Treatment = changes.Treatment
	m.Vet = changes.Vet
	m.Note = changes.Note
	if err := s.pets.UpdateMedicalRecord(m); err != nil {
		return nil, repoError(err, "Medical record not found")
	}
	return m, nil
}

func (s *PetService) DeleteMedicalRecord(actor Actor, petID, id string) error {
	if _, err := s.Get(actor, petID); err != nil {
		return err
	}
	return repoError(s.pets.DeleteMedicalRecord(petID, id), "Medical record not found")
}
