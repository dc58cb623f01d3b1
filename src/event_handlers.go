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

func eventHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/events/mine", func(ctx *gin.Context) {
			events, err := common.ListMyEvents(ctx.Request.Context(), db.GetDb(), middlewares.CurrentUser(ctx))
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": events, "count": len(events)})
		}).
		POST("/events", func(ctx *gin.Context) {
			var body types.CreateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			event, err := common.CreateEvent(ctx.Request.Context(), db.GetDb(), middlewares.CurrentUser(ctx), &body)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, event)
		}).
		PUT("/events/:id", func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			var body types.UpdateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			event, err := common.UpdateEvent(ctx.Request.Context(), db.GetDb(), middlewares.CurrentUser(ctx), id, &body)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, event)
		}).
		PATCH("/events/:id/status", func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			var body types.UpdateEventStatusRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			event, err := common.SetEventStatus(ctx.Request.Context(), db.GetDb(), middlewares.CurrentUser(ctx), id, body.NewStatus, body.Version)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, event)
		}).
		DELETE("/events/:id", func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			user := middlewares.CurrentUser(ctx)
			if err := common.DeleteEvent(ctx.Request.Context(), db.GetDb(), user, id); err != nil {
				abortWithError(ctx, err)
				return
			}
			log.Printf("Event %d deleted by user %d\n", id, user.ID)
			ctx.Status(http.StatusNoContent)
		})
	return g
}
