// services/reminder_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"salonx-backend/models"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

type ReminderService struct {
	db     *gorm.DB
	client *twilio.RestClient
	mailer *Mailer
}

func NewReminderService(db *gorm.DB) *ReminderService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &ReminderService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		mailer: NewMailer(),
	}
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", s.SendDailyReminders)

	c.Start()
	log.Println("Reminder scheduler started")
}

func (s *ReminderService) SendDailyReminders() {
	log.Println("Starting daily reminder processing...")

	var salons []models.Salon
	if err := s.db.Find(&salons, "is_active = ?", true).Error; err != nil {
		log.Printf("Failed to fetch salons: %v", err)
		return
	}

	for _, salon := range salons {
		s.ProcessSalonReminders(&salon)
	}

	log.Println("Daily reminder processing completed")
}

func (s *ReminderService) ProcessSalonReminders(salon *models.Salon) {
	if salon.BirthdayReminders {
		customers, err := s.getUpcomingCustomers(salon.ID, "birthday")
		if err != nil {
			log.Printf("Salon %s: Failed to get birthday customers: %v", salon.ID, err)
		} else {
			s.sendReminders(salon, customers, "birthday")
		}
	}

	if salon.AnniversaryReminders {
		customers, err := s.getUpcomingCustomers(salon.ID, "anniversary")
		if err != nil {
			log.Printf("Salon %s: Failed to get anniversary customers: %v", salon.ID, err)
		} else {
			s.sendReminders(salon, customers, "anniversary")
		}
	}
}

func (s *ReminderService) getUpcomingCustomers(salonID uuid.UUID, eventType string) ([]models.Customer, error) {
	now := time.Now()
	endDate := now.AddDate(0, 0, 7) // 7 days out

	var field string
	switch eventType {
	case "birthday":
		field = "birthday"
	case "anniversary":
		field = "anniversary"
	default:
		return nil, fmt.Errorf("invalid event type: %s", eventType)
	}

	var customers []models.Customer
	cond, args := DateWindowCondition(field, now, endDate)
	query := fmt.Sprintf(`
		SELECT * FROM customers
		WHERE salon_id = ?
		AND is_active = true
		AND deleted_at IS NULL
		AND %s IS NOT NULL
		AND (%s)
	`, field, cond)

	err := s.db.Raw(query, append([]interface{}{salonID}, args...)...).Scan(&customers).Error
	return customers, err
}

// DateWindowCondition builds a SQL predicate matching dates whose month and
// day fall within [from, to], ignoring the year. A window that crosses a
// month boundary splits into one segment per month, since a single
// BETWEEN on the day of month matches nothing there.
func DateWindowCondition(field string, from, to time.Time) (string, []interface{}) {
	if from.Month() == to.Month() {
		cond := fmt.Sprintf(
			"EXTRACT(MONTH FROM %s) = ? AND EXTRACT(DAY FROM %s) BETWEEN ? AND ?",
			field, field)
		return cond, []interface{}{int(from.Month()), from.Day(), to.Day()}
	}
	cond := fmt.Sprintf(
		"(EXTRACT(MONTH FROM %s) = ? AND EXTRACT(DAY FROM %s) >= ?) OR (EXTRACT(MONTH FROM %s) = ? AND EXTRACT(DAY FROM %s) <= ?)",
		field, field, field, field)
	return cond, []interface{}{int(from.Month()), from.Day(), int(to.Month()), to.Day()}
}

func (s *ReminderService) sendReminders(salon *models.Salon, customers []models.Customer, eventType string) {
	var template models.ReminderTemplate
	if err := s.db.Where("salon_id = ? AND type = ? AND is_active = true", salon.ID, eventType).
		First(&template).Error; err != nil {
		log.Printf("Salon %s: No active template for %s: %v", salon.ID, eventType, err)
		return
	}

	for _, customer := range customers {
		message := strings.ReplaceAll(template.Message, "[CustomerName]", customer.Name)

		channel, status, errorMsg := s.deliver(salon, &customer, message)

		reminderLog := models.ReminderLog{
			SalonID:      salon.ID,
			CustomerID:   customer.ID,
			TemplateID:   template.ID,
			Type:         eventType,
			Message:      message,
			Status:       status,
			ErrorMessage: errorMsg,
			Channel:      channel,
			SentAt:       time.Now(),
		}

		if err := s.db.Create(&reminderLog).Error; err != nil {
			log.Printf("Failed to log reminder for customer %s: %v", customer.ID, err)
		}
	}
}

// deliver picks a channel from the salon's notification flags: WhatsApp for
// E.164 numbers when enabled, then SMS, then email.
func (s *ReminderService) deliver(salon *models.Salon, customer *models.Customer, message string) (channel, status, errorMsg string) {
	switch {
	case salon.WhatsAppNotifications && strings.HasPrefix(customer.Phone, "+"):
		channel = "whatsapp"
	case salon.SMSNotifications && customer.Phone != "":
		channel = "sms"
	case salon.EmailNotifications && customer.Email != "":
		channel = "email"
	default:
		return "none", "failed", "no enabled channel for customer"
	}

	if channel == "email" {
		if err := s.mailer.Send(customer.Email, "A treat is waiting for you at "+salon.Name, message); err != nil {
			log.Printf("Failed to email %s: %v", customer.Email, err)
			return channel, "failed", err.Error()
		}
		return channel, "sent", ""
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetBody(message)
	if channel == "whatsapp" {
		params.SetTo("whatsapp:" + customer.Phone)
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetTo(customer.Phone)
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("Failed to send message to %s: %v", customer.Phone, err)
		return channel, "failed", err.Error()
	}
	if resp.Sid != nil {
		log.Printf("Message sent to %s, SID: %s", customer.Phone, *resp.Sid)
	}
	return channel, "sent", ""
}
