package main

import (
	"eventspark/src/common"
	"eventspark/src/db"
	"eventspark/src/middlewares"
	"net/http"

	"github.com/gin-gonic/gin"
)

func transactionHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/orders", func(ctx *gin.Context) {
			orders, err := common.ListMyOrders(ctx.Request.Context(), db.GetDb(), middlewares.CurrentUser(ctx))
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": orders, "count": len(orders)})
		}).
		GET("/orders/:id", func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			order, err := common.OrderDetails(ctx.Request.Context(), db.GetDb(), middlewares.CurrentUser(ctx), id)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, order)
		}).
		GET("/orders/:id/payment", func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			order, err := common.OrderPayment(ctx.Request.Context(), db.GetDb(), middlewares.CurrentUser(ctx), id)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"order_id":          order.ID,
				"status":            order.Status,
				"total_amount":      order.TotalAmount,
				"payment_reference": order.PaymentReference,
			})
		})
	return g
}
