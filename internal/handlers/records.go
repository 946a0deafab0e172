package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/middleware"
	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/models"
	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/service"
)

type createRecordRequest struct {
	PatientEmail string `json:"patientEmail" binding:"required"`
	Title        string `json:"title" binding:"required"`
	Notes        string `json:"notes"`
}

type recordResponse struct {
	ID           int64     `json:"id"`
	DoctorID     int64     `json:"doctorId"`
	PatientID    int64     `json:"patientId"`
	Title        string    `json:"title"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"createdAt"`
	DoctorEmail  string    `json:"doctorEmail,omitempty"`
	PatientEmail string    `json:"patientEmail,omitempty"`
}

func (h HandlerSet) CreateRecord(c *gin.Context) {
	actor, ok := currentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth_required"})
		return
	}

	var req createRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.records.CreateRecord(c.Request.Context(), actor, req.PatientEmail, req.Title, req.Notes)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"record": toRecordResponse(rec)})
}

// ListRecords serves both roles: doctors get the records they authored,
// patients the records about them.
func (h HandlerSet) ListRecords(c *gin.Context) {
	actor, ok := currentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth_required"})
		return
	}

	var (
		records []models.MedicalRecord
		err     error
	)
	switch actor.Role {
	case models.RoleDoctor:
		records, err = h.records.ListForDoctor(c.Request.Context(), actor)
	case models.RolePatient:
		records, err = h.records.ListForPatient(c.Request.Context(), actor)
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": toRecordResponses(records)})
}

func (h HandlerSet) DoctorDashboard(c *gin.Context) {
	actor, ok := currentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth_required"})
		return
	}

	dashboard, err := h.records.DoctorDashboard(c.Request.Context(), actor)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"doctor":         identityResponse(actor),
		"records":        toRecordResponses(dashboard.Records),
		"totalRecords":   dashboard.TotalRecords,
		"uniquePatients": dashboard.UniquePatients,
	})
}

func (h HandlerSet) PatientDashboard(c *gin.Context) {
	actor, ok := currentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth_required"})
		return
	}

	dashboard, err := h.records.PatientDashboard(c.Request.Context(), actor)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"patient": identityResponse(actor),
		"records": toRecordResponses(dashboard.Records),
		"doctors": toUserResponses(dashboard.Doctors),
	})
}

func currentIdentity(c *gin.Context) (service.Identity, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return service.Identity{}, false
	}
	return service.Identity{ID: user.ID, Email: user.Email, Role: user.Role}, true
}

func toRecordResponse(rec models.MedicalRecord) recordResponse {
	return recordResponse{
		ID:           rec.ID,
		DoctorID:     rec.DoctorID,
		PatientID:    rec.PatientID,
		Title:        rec.Title,
		Notes:        rec.Notes,
		CreatedAt:    rec.CreatedAt,
		DoctorEmail:  rec.DoctorEmail,
		PatientEmail: rec.PatientEmail,
	}
}

func toRecordResponses(records []models.MedicalRecord) []recordResponse {
	out := make([]recordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toRecordResponse(rec))
	}
	return out
}

func toUserResponses(users []models.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, user := range users {
		out = append(out, userResponse{
			ID:        user.ID,
			Email:     user.Email,
			Role:      string(user.Role),
			CreatedAt: user.CreatedAt,
		})
	}
	return out
}
