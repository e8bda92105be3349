package medication

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/pillguard/pillguard/internal/errors"
)

// Store handles medication persistence
type Store struct {
	db *gorm.DB
}

// NewStore creates a new medication store
func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Medication{}); err != nil {
		return nil, apperrors.Wrap(err, "STORE_001", "failed to migrate medication schema")
	}
	return &Store{db: db}, nil
}

func generateID() string {
	return "med_" + uuid.NewString()
}

// Create inserts a new medication after validation.
func (s *Store) Create(med *Medication) error {
	if err := med.Validate(); err != nil {
		return err
	}
	if med.ID == "" {
		med.ID = generateID()
	}
	serializeTimes(med)
	med.CreatedAt = time.Now()
	med.UpdatedAt = time.Now()
	return s.db.Create(med).Error
}

// Get returns the medication by id, or ErrMedicationNotFound.
func (s *Store) Get(id string) (*Medication, error) {
	var med Medication
	err := s.db.Where("id = ?", id).First(&med).Error
	if err == gorm.ErrRecordNotFound {
		return nil, apperrors.ErrMedicationNotFound
	}
	if err != nil {
		return nil, err
	}
	deserializeTimes(&med)
	return &med, nil
}

// Update persists changes to an existing medication.
func (s *Store) Update(med *Medication) error {
	if err := med.Validate(); err != nil {
		return err
	}
	serializeTimes(med)
	med.UpdatedAt = time.Now()
	return s.db.Save(med).Error
}

// Delete removes a medication by id.
func (s *Store) Delete(id string) error {
	return s.db.Where("id = ?", id).Delete(&Medication{}).Error
}

// List returns all medications, oldest first.
func (s *Store) List() ([]Medication, error) {
	var meds []Medication
	err := s.db.Order("created_at ASC").Find(&meds).Error
	for i := range meds {
		deserializeTimes(&meds[i])
	}
	return meds, err
}

func serializeTimes(med *Medication) {
	if len(med.ScheduledTimes) > 0 {
		timesJSON, _ := json.Marshal(med.ScheduledTimes)
		med.TimesJSON = string(timesJSON)
	} else {
		med.TimesJSON = ""
	}
}

func deserializeTimes(med *Medication) {
	if med.TimesJSON != "" {
		json.Unmarshal([]byte(med.TimesJSON), &med.ScheduledTimes)
	}
}
