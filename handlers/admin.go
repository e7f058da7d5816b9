package handlers

import (
	"net/http"
	"time"

	"turnero/config"
	appointmentRepo "turnero/database/repository/appointment"
	conversationRepo "turnero/database/repository/conversation"
	professionalRepo "turnero/database/repository/professional"
	"turnero/models"
	"turnero/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AdminHandler encapsulates the professional-facing management surface:
// reviewing pending appointments, confirming or cancelling them, and
// declaring blackout periods.
type AdminHandler struct {
	Appointments  appointmentRepo.AppointmentRepository
	Professionals professionalRepo.ProfessionalRepository
	Conversations conversationRepo.ConversationRepository
}

func NewAdminHandler(appts appointmentRepo.AppointmentRepository, profs professionalRepo.ProfessionalRepository, convs conversationRepo.ConversationRepository) *AdminHandler {
	return &AdminHandler{Appointments: appts, Professionals: profs, Conversations: convs}
}

// TokenHandler exchanges the configured admin key for a short-lived JWT.
func (ah *AdminHandler) TokenHandler(c *gin.Context) {
	var req struct {
		Key string `json:"key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if config.AppConfig.AdminKey == "" || req.Key != config.AppConfig.AdminKey {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid admin key"})
		return
	}
	token, err := utils.GenerateToken("admin", 12*time.Hour)
	if err != nil {
		zap.L().Error("Failed to issue admin token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// appointmentView adds the professional's local wall-clock times to the
// stored UTC instants.
type appointmentView struct {
	models.Appointment
	StartLocal string `json:"startLocal"`
	EndLocal   string `json:"endLocal"`
}

// ListAppointmentsHandler returns a professional's appointments filtered by
// status (default pending), rendered in the professional's timezone.
func (ah *AdminHandler) ListAppointmentsHandler(c *gin.Context) {
	profID := c.Param("id")
	prof, err := ah.Professionals.GetByID(profID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Professional not found"})
		return
	}

	status := models.AppointmentStatus(c.DefaultQuery("status", string(models.StatusPending)))
	appts, err := ah.Appointments.ListByStatus(profID, status)
	if err != nil {
		zap.L().Error("Failed to list appointments", zap.String("professionalID", profID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list appointments"})
		return
	}

	loc, err := time.LoadLocation(prof.Timezone)
	if err != nil {
		loc = time.UTC
	}
	views := make([]appointmentView, 0, len(appts))
	for _, a := range appts {
		views = append(views, appointmentView{
			Appointment: a,
			StartLocal:  a.StartUTC.In(loc).Format("2006-01-02 15:04"),
			EndLocal:    a.EndUTC.In(loc).Format("2006-01-02 15:04"),
		})
	}
	c.JSON(http.StatusOK, gin.H{"appointments": views})
}

// ConfirmAppointmentHandler moves a pending appointment to confirmed,
// optionally recording the agreed price, modality and a note.
func (ah *AdminHandler) ConfirmAppointmentHandler(c *gin.Context) {
	profID := c.Param("id")
	apptID := c.Param("apptID")

	var req struct {
		Price    *float64        `json:"price"`
		Modality models.Modality `json:"modality"`
		Note     string          `json:"note"`
	}
	_ = c.ShouldBindJSON(&req)

	if err := ah.Appointments.ConfirmWithTerms(apptID, profID, req.Price, req.Modality, req.Note); err != nil {
		zap.L().Error("Failed to confirm appointment", zap.String("appointmentID", apptID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm appointment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(models.StatusConfirmed)})
}

// CancelAppointmentHandler cancels an appointment; the record is kept.
func (ah *AdminHandler) CancelAppointmentHandler(c *gin.Context) {
	profID := c.Param("id")
	apptID := c.Param("apptID")

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	if err := ah.Appointments.UpdateStatus(apptID, profID, models.StatusCancelled, req.Reason); err != nil {
		zap.L().Error("Failed to cancel appointment", zap.String("appointmentID", apptID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel appointment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(models.StatusCancelled)})
}

// ListMessagesHandler returns the recent conversation turns with one
// counterpart, newest first.
func (ah *AdminHandler) ListMessagesHandler(c *gin.Context) {
	profID := c.Param("id")
	cpID := c.Param("cpID")

	limit := int64(50)
	msgs, err := ah.Conversations.ListRecent(profID, cpID, limit)
	if err != nil {
		zap.L().Error("Failed to list messages", zap.String("professionalID", profID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// CreateBlackoutHandler declares an interval no appointment may occupy.
func (ah *AdminHandler) CreateBlackoutHandler(c *gin.Context) {
	profID := c.Param("id")

	var req struct {
		StartUTC time.Time `json:"startUtc" binding:"required"`
		EndUTC   time.Time `json:"endUtc" binding:"required"`
		Reason   string    `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if !req.StartUTC.Before(req.EndUTC) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Blackout start must precede end"})
		return
	}

	blackout := &models.BlackoutPeriod{
		ID:             uuid.New().String(),
		ProfessionalID: profID,
		StartUTC:       req.StartUTC.UTC(),
		EndUTC:         req.EndUTC.UTC(),
		Reason:         req.Reason,
	}
	if err := ah.Professionals.CreateBlackout(blackout); err != nil {
		zap.L().Error("Failed to create blackout", zap.String("professionalID", profID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create blackout"})
		return
	}
	c.JSON(http.StatusCreated, blackout)
}
