package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/models"
	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/repository"
)

// RecordStore is the persistence port for medical record rows.
type RecordStore interface {
	Create(ctx context.Context, rec *models.MedicalRecord) error
	ListByDoctor(ctx context.Context, doctorID int64) ([]models.MedicalRecord, error)
	ListByPatient(ctx context.Context, patientID int64) ([]models.MedicalRecord, error)
	DoctorsForPatient(ctx context.Context, patientID int64) ([]models.User, error)
	CountByDoctorAndPatient(ctx context.Context, doctorID, patientID int64) (int, error)
}

type RecordService struct {
	users   UserStore
	records RecordStore
	log     zerolog.Logger
}

func NewRecordService(users UserStore, records RecordStore, log zerolog.Logger) *RecordService {
	return &RecordService{users: users, records: records, log: log}
}

// CreateRecord writes a new record authored by actor about the patient with
// the given email. The role gate in the middleware is the primary check; the
// re-check here is a safety net in case a future caller bypasses it.
func (s *RecordService) CreateRecord(ctx context.Context, actor Identity, patientEmail, title, notes string) (models.MedicalRecord, error) {
	if actor.Role != models.RoleDoctor {
		return models.MedicalRecord{}, ErrForbidden
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return models.MedicalRecord{}, fmt.Errorf("%w: title is required", ErrValidation)
	}

	patient, err := s.users.FindByEmail(ctx, NormalizeEmail(patientEmail))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.MedicalRecord{}, ErrNoSuchPatient
		}
		return models.MedicalRecord{}, storeError(err)
	}
	if patient.Role != models.RolePatient {
		return models.MedicalRecord{}, ErrNoSuchPatient
	}

	rec := models.MedicalRecord{
		DoctorID:     actor.ID,
		PatientID:    patient.ID,
		Title:        title,
		Notes:        strings.TrimSpace(notes),
		DoctorEmail:  actor.Email,
		PatientEmail: patient.Email,
	}

	if err := s.records.Create(ctx, &rec); err != nil {
		return models.MedicalRecord{}, storeError(err)
	}

	s.log.Info().
		Int64("record_id", rec.ID).
		Int64("doctor_id", actor.ID).
		Int64("patient_id", patient.ID).
		Msg("record created")

	return rec, nil
}

func (s *RecordService) ListForDoctor(ctx context.Context, actor Identity) ([]models.MedicalRecord, error) {
	if actor.Role != models.RoleDoctor {
		return nil, ErrForbidden
	}

	records, err := s.records.ListByDoctor(ctx, actor.ID)
	if err != nil {
		return nil, storeError(err)
	}
	return records, nil
}

func (s *RecordService) ListForPatient(ctx context.Context, actor Identity) ([]models.MedicalRecord, error) {
	if actor.Role != models.RolePatient {
		return nil, ErrForbidden
	}

	records, err := s.records.ListByPatient(ctx, actor.ID)
	if err != nil {
		return nil, storeError(err)
	}
	return records, nil
}

// DoctorDashboard is the doctor landing payload: their records plus the
// headline counts the dashboard shows.
type DoctorDashboard struct {
	Records        []models.MedicalRecord
	TotalRecords   int
	UniquePatients int
}

func (s *RecordService) DoctorDashboard(ctx context.Context, actor Identity) (DoctorDashboard, error) {
	records, err := s.ListForDoctor(ctx, actor)
	if err != nil {
		return DoctorDashboard{}, err
	}

	patients := make(map[int64]struct{}, len(records))
	for _, rec := range records {
		patients[rec.PatientID] = struct{}{}
	}

	return DoctorDashboard{
		Records:        records,
		TotalRecords:   len(records),
		UniquePatients: len(patients),
	}, nil
}

// PatientDashboard is the patient landing payload: their records plus the
// distinct doctors who have treated them.
type PatientDashboard struct {
	Records []models.MedicalRecord
	Doctors []models.User
}

func (s *RecordService) PatientDashboard(ctx context.Context, actor Identity) (PatientDashboard, error) {
	records, err := s.ListForPatient(ctx, actor)
	if err != nil {
		return PatientDashboard{}, err
	}

	doctors, err := s.records.DoctorsForPatient(ctx, actor.ID)
	if err != nil {
		return PatientDashboard{}, storeError(err)
	}
	for i := range doctors {
		doctors[i].PasswordHash = ""
	}

	return PatientDashboard{Records: records, Doctors: doctors}, nil
}

// RecordCount reports how many records the doctor has written for one
// patient, used by the patient directory view.
func (s *RecordService) RecordCount(ctx context.Context, actor Identity, patientID int64) (int, error) {
	if actor.Role != models.RoleDoctor {
		return 0, ErrForbidden
	}

	count, err := s.records.CountByDoctorAndPatient(ctx, actor.ID, patientID)
	if err != nil {
		return 0, storeError(err)
	}
	return count, nil
}
