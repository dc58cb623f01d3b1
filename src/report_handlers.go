package main

import (
	"eventspark/src/common"
	"eventspark/src/db"
	"eventspark/src/middlewares"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

func reportHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/events/:id/stats", func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			stats, err := common.EventStats(ctx.Request.Context(), db.GetDb(), middlewares.CurrentUser(ctx), id)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, stats)
		}).
		GET("/events/:id/tickets/export", func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			body, filename, err := common.ExportEventTicketsCsv(ctx.Request.Context(), db.GetDb(), middlewares.CurrentUser(ctx), id)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
			ctx.Data(http.StatusOK, "text/csv; charset=utf-8", body)
		}).
		GET("/dashboard/my", func(ctx *gin.Context) {
			dashboard, err := common.OrganizerDashboard(ctx.Request.Context(), db.GetDb(), middlewares.CurrentUser(ctx))
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, dashboard)
		}).
		GET("/dashboard/admin", func(ctx *gin.Context) {
			dashboard, err := common.AdminDashboard(ctx.Request.Context(), db.GetDb(), middlewares.CurrentUser(ctx))
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, dashboard)
		})
	return g
}
