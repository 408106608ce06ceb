package main

import (
	"descubre/src/db"
	"descubre/src/models"
	"descubre/src/types"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func reviewHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/events/:id/reviews", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			var reviews []models.Review
			if err := db.
				Model(&models.Review{}).
				Where(&models.Review{EventID: params.ID}).
				Order("created_at desc").
				Find(&reviews).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			var average float64
			if len(reviews) > 0 {
				var sum uint
				for _, r := range reviews {
					sum += r.Rating
				}
				average = float64(sum) / float64(len(reviews))
			}
			ctx.JSON(http.StatusOK, gin.H{"data": reviews, "count": len(reviews), "average_rating": average})
		}).
		POST("/events/:id/reviews", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.CreateReviewRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			review := models.Review{
				EventID:    params.ID,
				AuthorName: body.AuthorName,
				Rating:     body.Rating,
				Comment:    body.Comment,
			}
			err := db.Transaction(func(tx *gorm.DB) error {
				var event models.Event
				if err := tx.First(&event, params.ID).Error; err != nil {
					return err
				}
				return tx.Create(&review).Error
			})
			if err != nil {
				log.Printf("Error creating review: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": review})
		})
	return g
}
