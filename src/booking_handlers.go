package main

import (
	"descubre/src/db"
	"descubre/src/models"
	"descubre/src/types"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yeqown/go-qrcode"
	"gorm.io/gorm"
)

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/bookings", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var bookings []models.Booking
			err := db.Transaction(func(tx *gorm.DB) error {
				return tx.
					Model(&models.Booking{}).
					Where(&models.Booking{UserID: userId}).
					Preload("Event").
					Preload("TicketType").
					Order("booking_date desc").
					Find(&bookings).
					Error
			})
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		GET("/bookings/:id", func(ctx *gin.Context) {
			var params types.CheckoutURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			bookingId := uuid.MustParse(params.ID)
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var booking models.Booking
			ss := db.Session(&gorm.Session{PrepareStmt: true})
			if err := ss.
				Model(&models.Booking{}).
				Where(&models.Booking{ID: bookingId, UserID: userId}).
				Preload("Event").
				Preload("TicketType").
				First(&booking).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		GET("/bookings/:id/ticket", func(ctx *gin.Context) {
			var params types.CheckoutURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			bookingId := uuid.MustParse(params.ID)
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var booking models.Booking
			if err := db.
				Where(&models.Booking{ID: bookingId, UserID: userId, Status: types.BOOKING_CONFIRMED}).
				Preload("Event").
				First(&booking).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			filepath := path.Join(os.TempDir(), fmt.Sprintf("%s.jpeg", booking.ID.String()))
			if _, err := os.Stat(filepath); err != nil {
				payload := fmt.Sprintf("%s:%d:%d", booking.ID.String(), booking.EventID, booking.Tickets)
				qrc, err := qrcode.New(payload)
				if err != nil {
					ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
					return
				}
				if err := qrc.Save(filepath); err != nil {
					log.Printf("Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
					ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
					return
				}
			}
			ctx.FileAttachment(filepath, "eticket.jpeg")
		})
	return g
}
