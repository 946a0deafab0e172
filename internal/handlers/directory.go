package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ListPatients is the doctor-facing patient directory. With ?q= it searches
// by email substring, without it it lists recent patients.
func (h HandlerSet) ListPatients(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	patients, err := h.accounts.SearchPatients(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"patients": toUserResponses(patients)})
}

func (h HandlerSet) ListDoctors(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	doctors, err := h.accounts.SearchDoctors(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"doctors": toUserResponses(doctors)})
}

// DoctorsVisited lists the distinct doctors who have written records for the
// authenticated patient.
func (h HandlerSet) DoctorsVisited(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{"doctors": toUserResponses(dashboard.Doctors)})
}

// PatientRecordCount reports how many records the calling doctor has written
// for one patient, used next to directory entries.
func (h HandlerSet) PatientRecordCount(c *gin.Context) {
	actor, ok := currentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth_required"})
		return
	}

	patientID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid patient id"})
		return
	}

	count, err := h.records.RecordCount(c.Request.Context(), actor, patientID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"patientId": patientID, "count": count})
}
