package main

import (
	"eventspark/src/common"
	"eventspark/src/db"
	"eventspark/src/middlewares"
	"eventspark/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
)

func categoryHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.GET("/categories", func(ctx *gin.Context) {
		categories, err := common.ListCategories(ctx.Request.Context(), db.GetDb())
		if err != nil {
			abortWithError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"data": categories})
	})
	return g
}

func adminCategoryHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.POST("/categories", func(ctx *gin.Context) {
		var body types.CreateCategoryRequestBody
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		category, err := common.CreateCategory(ctx.Request.Context(), db.GetDb(), middlewares.CurrentUser(ctx), body.Name)
		if err != nil {
			abortWithError(ctx, err)
			return
		}
		ctx.JSON(http.StatusCreated, category)
	})
	return g
}
