package controllers

import (
	"net/http"

	"salonx-backend/config"
	"salonx-backend/services"
	"salonx-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// tenantIDs pulls the salon and user IDs out of the session context. On
// failure it writes the error response and returns ok=false.
func tenantIDs(c *gin.Context) (salonID, userID uuid.UUID, ok bool) {
	rawSalon, exists := c.Get("salonId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Salon ID not found in context")
		return
	}
	salonID, err := uuid.Parse(rawSalon.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid salon ID format")
		return
	}

	if rawUser, exists := c.Get("userId"); exists {
		if parsed, err := uuid.Parse(rawUser.(string)); err == nil {
			userID = parsed
		}
	}
	return salonID, userID, true
}

// pathUUID parses a :id style path parameter.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

func isAdminSession(c *gin.Context) bool {
	v, exists := c.Get("isAdmin")
	if !exists {
		return false
	}
	admin, _ := v.(bool)
	return admin
}

func billingService() *services.BillingService {
	return services.NewBillingService(config.DB)
}

func paymentService() *services.PaymentService {
	return services.NewPaymentService(config.DB)
}

func exportService() *services.ExportService {
	return services.NewExportService(config.DB)
}
