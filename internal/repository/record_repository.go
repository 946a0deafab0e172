package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/models"
)

type RecordRepository struct {
	pool *pgxpool.Pool
}

func NewRecordRepository(pool *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{pool: pool}
}

// Create inserts the record and fills in the store-assigned ID and timestamp.
// Referential integrity of doctor_id/patient_id is the schema's job.
func (r *RecordRepository) Create(ctx context.Context, rec *models.MedicalRecord) error {
	const query = `
		INSERT INTO medical_records (doctor_id, patient_id, title, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	row := r.pool.QueryRow(ctx, query, rec.DoctorID, rec.PatientID, rec.Title, rec.Notes)
	return row.Scan(&rec.ID, &rec.CreatedAt)
}

// ListByDoctor returns every record authored by the doctor, newest first,
// ties broken by id descending, with the patient's email joined in.
func (r *RecordRepository) ListByDoctor(ctx context.Context, doctorID int64) ([]models.MedicalRecord, error) {
	const query = `
		SELECT mr.id, mr.doctor_id, mr.patient_id, mr.title, mr.notes, mr.created_at, u.email
		FROM medical_records mr
		JOIN users u ON mr.patient_id = u.id
		WHERE mr.doctor_id = $1
		ORDER BY mr.created_at DESC, mr.id DESC
	`

	rows, err := r.pool.Query(ctx, query, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.MedicalRecord
	for rows.Next() {
		var rec models.MedicalRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.DoctorID,
			&rec.PatientID,
			&rec.Title,
			&rec.Notes,
			&rec.CreatedAt,
			&rec.PatientEmail,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListByPatient returns every record about the patient, same ordering as
// ListByDoctor, with the authoring doctor's email joined in.
func (r *RecordRepository) ListByPatient(ctx context.Context, patientID int64) ([]models.MedicalRecord, error) {
	const query = `
		SELECT mr.id, mr.doctor_id, mr.patient_id, mr.title, mr.notes, mr.created_at, u.email
		FROM medical_records mr
		JOIN users u ON mr.doctor_id = u.id
		WHERE mr.patient_id = $1
		ORDER BY mr.created_at DESC, mr.id DESC
	`

	rows, err := r.pool.Query(ctx, query, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.MedicalRecord
	for rows.Next() {
		var rec models.MedicalRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.DoctorID,
			&rec.PatientID,
			&rec.Title,
			&rec.Notes,
			&rec.CreatedAt,
			&rec.DoctorEmail,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DoctorsForPatient returns the distinct doctors who have authored at least
// one record for the patient, ordered by email.
func (r *RecordRepository) DoctorsForPatient(ctx context.Context, patientID int64) ([]models.User, error) {
	const query = `
		SELECT DISTINCT u.id, u.email, u.role, u.created_at
		FROM users u
		JOIN medical_records mr ON u.id = mr.doctor_id
		WHERE mr.patient_id = $1
		ORDER BY u.email
	`

	rows, err := r.pool.Query(ctx, query, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var doctors []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Email, &user.Role, &user.CreatedAt); err != nil {
			return nil, err
		}
		doctors = append(doctors, user)
	}
	return doctors, rows.Err()
}

func (r *RecordRepository) CountByDoctorAndPatient(ctx context.Context, doctorID, patientID int64) (int, error) {
	const query = `
		SELECT COUNT(*) FROM medical_records
		WHERE doctor_id = $1 AND patient_id = $2
	`

	var count int
	if err := r.pool.QueryRow(ctx, query, doctorID, patientID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
