package main

import (
	"eventspark/src/common"
	"eventspark/src/db"
	"eventspark/src/middlewares"
	"eventspark/src/types"
	"eventspark/src/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

func catalogHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/events", func(ctx *gin.Context) {
			var query types.EventListQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			filter, err := common.ParseEventListQuery(query)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			events, total, err := common.ListEvents(ctx.Request.Context(), db.GetDb(), filter)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"data":        events,
				"count":       len(events),
				"total":       total,
				"page":        filter.Page,
				"page_size":   filter.PageSize,
				"total_pages": utils.TotalPages(total, filter.PageSize),
			})
		}).
		GET("/events/:id", middlewares.OptionalAuth, func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			event, err := common.GetEvent(ctx.Request.Context(), db.GetDb(), middlewares.CurrentUser(ctx), id)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, event)
		}).
		GET("/cities", func(ctx *gin.Context) {
			cities, err := common.ListCities(ctx.Request.Context(), db.GetDb())
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": cities})
		})
	return g
}
