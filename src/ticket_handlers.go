package main

import (
	"eventspark/src/common"
	"eventspark/src/db"
	"eventspark/src/middlewares"
	"eventspark/src/types"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

func ticketHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/events/:id/ticket-types", func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			ticketTypes, err := common.ListTicketTypes(ctx.Request.Context(), db.GetDb(), middlewares.CurrentUser(ctx), id)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": ticketTypes, "count": len(ticketTypes)})
		}).
		POST("/events/:id/ticket-types", func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			var body types.CreateTicketTypeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ticketType, err := common.CreateTicketType(ctx.Request.Context(), db.GetDb(), middlewares.CurrentUser(ctx), id, &body)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, ticketType)
		}).
		PUT("/ticket-types/:id", func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			var body types.UpdateTicketTypeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ticketType, err := common.UpdateTicketType(ctx.Request.Context(), db.GetDb(), middlewares.CurrentUser(ctx), id, &body)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, ticketType)
		}).
		DELETE("/ticket-types/:id", func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			if err := common.DeleteTicketType(ctx.Request.Context(), db.GetDb(), middlewares.CurrentUser(ctx), id); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		GET("/tickets", func(ctx *gin.Context) {
			tickets, err := common.ListMyTickets(ctx.Request.Context(), db.GetDb(), middlewares.CurrentUser(ctx))
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": tickets, "count": len(tickets)})
		}).
		GET("/tickets/:id/qr", func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			png, ticket, err := common.TicketQr(ctx.Request.Context(), db.GetDb(), middlewares.CurrentUser(ctx), id)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", ticket.TicketNumber+".png"))
			ctx.Data(http.StatusOK, "image/png", png)
		})
	return g
}
