package models

import "time"

// MedicalRecord is an append-only note written by one doctor about one
// patient. Rows are never updated or deleted.
//
// DoctorEmail/PatientEmail are joined in by list queries for dashboard
// rendering and are empty on the insert path.
type MedicalRecord struct {
	ID           int64
	DoctorID     int64
	PatientID    int64
	Title        string
	Notes        string
	CreatedAt    time.Time
	DoctorEmail  string
	PatientEmail string
}
