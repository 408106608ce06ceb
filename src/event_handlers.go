package main

import (
	"descubre/src/common"
	"descubre/src/config"
	"descubre/src/db"
	"descubre/src/models"
	"descubre/src/types"
	"descubre/src/utils"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func eventHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/categories", func(ctx *gin.Context) {
			db := db.GetDb()
			var categories []models.Category
			if err := db.Order("name asc").Find(&categories).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": categories, "count": len(categories)})
		}).
		GET("/events", func(ctx *gin.Context) {
			var query struct {
				Category string `form:"category"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var events []models.Event
			tx := db.
				Model(&models.Event{}).
				Preload("Category").
				Order("date asc")
			if query.Category != "" {
				tx = tx.Where(&models.Event{CategoryID: query.Category})
			}
			if err := tx.Find(&events).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": events, "count": len(events)})
		}).
		GET("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			var event models.Event
			if err := db.
				Model(&models.Event{}).
				Preload("Category").
				Preload("TicketTypes", "is_active = ?", true).
				First(&event, params.ID).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"data":              event,
				"min_price_display": utils.MinPriceDisplay(&event, event.TicketTypes),
			})
		}).
		GET("/events/:id/ticket-types", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			ticketTypes, err := inventory.TicketTypes(ctx, params.ID)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": ticketTypes, "count": len(ticketTypes)})
		})
	return g
}

func eventAdminHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/events", func(ctx *gin.Context) {
			var body types.CreateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			date, err := time.Parse(config.TIME_PARSE_FORMAT, body.Date)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			highlights := make(types.JSONBArray, 0, len(body.Highlights))
			for _, h := range body.Highlights {
				highlights = append(highlights, h)
			}
			event := models.Event{
				Title:       body.Title,
				Slug:        utils.EventSlug(body.Title),
				Description: body.Description,
				CategoryID:  body.CategoryID,
				Location:    body.Location,
				Latitude:    body.Latitude,
				Longitude:   body.Longitude,
				Date:        date,
				ImageURL:    body.ImageURL,
				Price:       body.Price,
				Highlights:  &highlights,
				Spots:       body.Spots,
			}
			db := db.GetDb()
			err = db.Transaction(func(tx *gorm.DB) error {
				return tx.Create(&event).Error
			})
			if err != nil {
				log.Printf("Error creating event: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": event})
		}).
		POST("/events/:id/ticket-types", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.CreateTicketTypeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			ticketType := models.TicketType{
				EventID:     params.ID,
				Name:        body.Name,
				Price:       body.Price,
				MaxQuantity: body.MaxQuantity,
				Quantity:    body.Quantity,
				Active:      true,
			}
			if body.Description != "" {
				ticketType.Description = &body.Description
			}
			err := db.Transaction(func(tx *gorm.DB) error {
				var event models.Event
				if err := tx.First(&event, params.ID).Error; err != nil {
					return err
				}
				return tx.Create(&ticketType).Error
			})
			if err != nil {
				log.Printf("Error creating ticket type: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			common.InvalidateTicketTypeCache(params.ID)
			ctx.JSON(http.StatusCreated, gin.H{"data": ticketType})
		})
	return g
}
