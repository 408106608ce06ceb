package common

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"descubre/src/db"
	"descubre/src/lib"
	"descubre/src/models"
	"descubre/src/types"
	"descubre/src/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AvailabilityErrorSubstring is the recognizable fragment the checkout
// core pattern-matches to pick its consistency-recovery path.
const AvailabilityErrorSubstring = "No hay suficientes entradas disponibles"

// DBBookingService checks availability and records the booking in one
// transaction. The ticket type row is locked for the duration so two
// concurrent submissions cannot oversell the same tier.
type DBBookingService struct{}

func (DBBookingService) Book(ctx context.Context, req BookingRequest) (*models.Booking, error) {
	var booking models.Booking
	db := db.GetDb()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ticketType models.TicketType
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", req.TicketTypeID).
			First(&ticketType).
			Error; err != nil {
			return err
		}
		if !ticketType.Active || ticketType.Quantity < req.Tickets {
			return errors.New(AvailabilityErrorSubstring)
		}
		if err := tx.
			Model(&models.TicketType{}).
			Where("id = ?", ticketType.ID).
			Update("available_quantity", gorm.Expr("available_quantity - ?", req.Tickets)).
			Error; err != nil {
			return err
		}
		if err := tx.
			Model(&models.Event{}).
			Where("id = ? AND available_spots >= ?", req.EventID, req.Tickets).
			Update("available_spots", gorm.Expr("available_spots - ?", req.Tickets)).
			Error; err != nil {
			return err
		}
		booking = models.Booking{
			EventID:      req.EventID,
			TicketTypeID: &req.TicketTypeID,
			UserID:       req.UserID,
			UserName:     req.UserName,
			UserEmail:    req.UserEmail,
			Tickets:      req.Tickets,
			TotalPrice:   req.TotalPrice,
			Status:       types.BOOKING_CONFIRMED,
			BookingDate:  time.Now(),
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		log.Printf("Booking failed for event %d: %s\n", req.EventID, err.Error())
		return nil, err
	}

	InvalidateTicketTypeCache(req.EventID)
	go sendBookingConfirmation(&booking)
	return &booking, nil
}

func sendBookingConfirmation(booking *models.Booking) {
	if os.Getenv("SMTP_HOST") == "" {
		return
	}
	var event models.Event
	db := db.GetDb()
	if err := db.Where("id = ?", booking.EventID).First(&event).Error; err != nil {
		log.Printf("Error loading event %d for confirmation email: %s\n", booking.EventID, err.Error())
		return
	}
	body := fmt.Sprintf(
		"Hola %s,\n\nTu reserva para %s ha sido confirmada.\n\nEntradas: %d\nTotal: %s\nReferencia: %s\n",
		booking.UserName,
		event.Title,
		booking.Tickets,
		utils.FormatPrice(booking.TotalPrice),
		booking.ID.String(),
	)
	err := lib.SendMail(&lib.SendMailInput{
		From:     os.Getenv("MAIL_FROM"),
		FromName: "Descubre RD",
		To:       []string{booking.UserEmail},
		Subject:  fmt.Sprintf("Reserva confirmada: %s", event.Title),
		Body:     body,
	})
	if err != nil {
		log.Printf("Error sending confirmation email to %s: %s\n", booking.UserEmail, err.Error())
	}
}
