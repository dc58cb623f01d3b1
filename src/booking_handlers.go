package main

import (
	"eventspark/src/common"
	"eventspark/src/db"
	"eventspark/src/middlewares"
	"eventspark/src/types"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/events/:id/purchase", func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			event, err := common.PurchaseOptions(ctx.Request.Context(), db.GetDb(), id)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, event)
		}).
		POST("/events/:id/cart", func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			var body types.CheckoutRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			cart, err := common.PreviewCart(ctx.Request.Context(), db.GetDb(), middlewares.CurrentUser(ctx), id, body.Lines)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, cart)
		}).
		POST("/events/:id/checkout", func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			var body types.CheckoutRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			user := middlewares.CurrentUser(ctx)
			order, err := common.Checkout(ctx.Request.Context(), db.GetDb(), user, id, body.Lines)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			log.Printf("Order %d placed by user %d for event %d\n", order.ID, user.ID, id)
			ctx.JSON(http.StatusCreated, order)
		})
	return g
}
