package main

import (
	"eventspark/src/common"
	"eventspark/src/db"
	"eventspark/src/middlewares"
	"eventspark/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
)

func admissionHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/checkin", func(ctx *gin.Context) {
			var body types.CheckInRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			outcome, err := common.CheckIn(ctx.Request.Context(), db.GetDb(), middlewares.CurrentUser(ctx), body.Code)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, outcome)
		}).
		GET("/events/:id/checkins", func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			logs, err := common.ListCheckInLogs(ctx.Request.Context(), db.GetDb(), middlewares.CurrentUser(ctx), id)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": logs, "count": len(logs)})
		})
	return g
}
