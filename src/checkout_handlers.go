package main

import (
	"descubre/src/common"
	"descubre/src/db"
	"descubre/src/models"
	"descubre/src/types"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// checkoutStatus maps checkout errors onto HTTP statuses. Closed and
// concurrent sessions are conflicts, validation problems are 422 and an
// expired session mid-submission is 410.
func checkoutStatus(err error) int {
	switch {
	case errors.Is(err, common.ErrSessionClosed), errors.Is(err, common.ErrSubmissionInProgress):
		return http.StatusConflict
	case errors.Is(err, common.ErrCheckoutExpired):
		return http.StatusGone
	case errors.Is(err, common.ErrTicketTypeNotFound):
		return http.StatusNotFound
	default:
		return http.StatusUnprocessableEntity
	}
}

func bindSession(ctx *gin.Context) (*common.Session, bool) {
	var params types.CheckoutURIParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	session, ok := checkout.Get(params.ID)
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "checkout session not found"})
		return nil, false
	}
	return session, true
}

func checkoutHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/events/:id/checkout", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			var event models.Event
			if err := db.First(&event, params.ID).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			session := checkout.Open(ctx, event.ID)
			ctx.JSON(http.StatusCreated, gin.H{"data": session.Snapshot()})
		}).
		GET("/checkout/:id", func(ctx *gin.Context) {
			session, ok := bindSession(ctx)
			if !ok {
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": session.Snapshot()})
		}).
		PUT("/checkout/:id/ticket-type", func(ctx *gin.Context) {
			session, ok := bindSession(ctx)
			if !ok {
				return
			}
			var body types.CheckoutTicketTypeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := session.SelectTicketType(body.TicketTypeID); err != nil {
				ctx.JSON(checkoutStatus(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": session.Snapshot()})
		}).
		PUT("/checkout/:id/quantity", func(ctx *gin.Context) {
			session, ok := bindSession(ctx)
			if !ok {
				return
			}
			var body types.CheckoutQuantityRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := session.SetQuantity(body.Tickets); err != nil {
				ctx.JSON(checkoutStatus(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": session.Snapshot()})
		}).
		PUT("/checkout/:id/contact", func(ctx *gin.Context) {
			session, ok := bindSession(ctx)
			if !ok {
				return
			}
			var body types.CheckoutContactRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := session.SetContact(body.Name, body.Email); err != nil {
				ctx.JSON(checkoutStatus(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": session.Snapshot()})
		}).
		PUT("/checkout/:id/discount", func(ctx *gin.Context) {
			session, ok := bindSession(ctx)
			if !ok {
				return
			}
			var body types.CheckoutDiscountRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := session.ApplyDiscount(body.Code); err != nil {
				ctx.JSON(checkoutStatus(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": session.Snapshot()})
		}).
		PUT("/checkout/:id/insurance", func(ctx *gin.Context) {
			session, ok := bindSession(ctx)
			if !ok {
				return
			}
			var body types.CheckoutInsuranceRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := session.SetInsurance(*body.Selected); err != nil {
				ctx.JSON(checkoutStatus(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": session.Snapshot()})
		}).
		PUT("/checkout/:id/card", func(ctx *gin.Context) {
			session, ok := bindSession(ctx)
			if !ok {
				return
			}
			var body types.CheckoutCardRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			card := common.CreditCard{
				Number:     body.Number,
				Expiry:     body.Expiry,
				CVV:        body.CVV,
				HolderName: body.HolderName,
			}
			if err := session.SetCard(card); err != nil {
				ctx.JSON(checkoutStatus(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": session.Snapshot()})
		}).
		POST("/checkout/:id/extend", func(ctx *gin.Context) {
			session, ok := bindSession(ctx)
			if !ok {
				return
			}
			if err := session.Extend(); err != nil {
				ctx.JSON(checkoutStatus(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": session.Snapshot()})
		}).
		DELETE("/checkout/:id", func(ctx *gin.Context) {
			session, ok := bindSession(ctx)
			if !ok {
				return
			}
			if err := session.Cancel(); err != nil {
				ctx.JSON(checkoutStatus(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": session.Snapshot()})
		}).
		POST("/checkout/:id/submit", func(ctx *gin.Context) {
			session, ok := bindSession(ctx)
			if !ok {
				return
			}
			booking, err := session.Submit(ctx)
			if err != nil {
				ctx.JSON(checkoutStatus(err), gin.H{"error": err.Error(), "data": session.Snapshot()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": session.Snapshot(), "booking": booking})
		})
	return g
}
