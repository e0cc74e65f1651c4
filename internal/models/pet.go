package models

import "time"

var PetSpecies = []string{"dog", "cat", "bird", "rabbit", "hamster", "other"}

// Pet is an animal owned by a user.
type Pet struct {
	ID             string          `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	OwnerID        string          `json:"ownerId" gorm:"type:varchar(36);index"`
	Name           string          `json:"name" gorm:"type:varchar(100)" validate:"required,max=100"`
	Species        string          `json:"species" gorm:"type:varchar(20)" validate:"required,oneof=dog cat bird rabbit hamster other"`
	Breed          string          `json:"breed" gorm:"type:varchar(100)" validate:"max=100"`
	Gender         string          `json:"gender" gorm:"type:varchar(10)" validate:"omitempty,oneof=male female unknown"`
	DOB            string          `json:"dob" gorm:"type:varchar(10)" validate:"omitempty,datetime=2006-01-02"`
	Weight         float64         `json:"weight" validate:"gte=0"`
	Photo          string          `json:"photo"`
	Vaccinations   []Vaccination   `json:"vaccinations,omitempty" gorm:"foreignKey:PetID;constraint:OnDelete:CASCADE"`
	MedicalHistory []MedicalRecord `json:"medicalHistory,omitempty" gorm:"foreignKey:PetID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

type Vaccination struct {
	ID          string    `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	PetID       string    `json:"petId" gorm:"type:varchar(36);index"`
	VaccineName string    `json:"vaccineName" validate:"required,max=100"`
	Date        string    `json:"date" gorm:"type:varchar(10)" validate:"required,datetime=2006-01-02"`
	NextDueDate string    `json:"nextDueDate" gorm:"type:varchar(10)" validate:"omitempty,datetime=2006-01-02"`
	Vet         string    `json:"vet"`
	Note        string    `json:"note"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type MedicalRecord struct {
	ID        string    `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	PetID     string    `json:"petId" gorm:"type:varchar(36);index"`
	Date      string    `json:"date" gorm:"type:varchar(10)" validate:"required,datetime=2006-01-02"`
	Diagnosis string    `json:"diagnosis" validate:"required,max=500"`
	Treatment string    `json:"treatment" validate:"max=1000"`
	Vet       string    `json:"vet"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (MedicalRecord) TableName() string {
	return "medical_records"
}
