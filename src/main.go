package main

import (
	"errors"
	"eventspark/src/boot"
	"eventspark/src/config"
	"eventspark/src/controllers"
	"eventspark/src/db"
	"eventspark/src/middlewares"
	"eventspark/src/types"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	apiPrefix string = "/api/v1"
)

// fieldString reads a string or *string field; ok is false for nil or other kinds.
func fieldString(v reflect.Value) (string, bool) {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return "", false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.String {
		return "", false
	}
	return v.String(), true
}

var eventDateTimeValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fieldString(fl.Field())
	if !ok {
		return false
	}
	_, err := time.Parse(config.TIME_PARSE_FORMAT, strings.TrimSpace(date))
	return err == nil
}

var saleDateTimeValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fieldString(fl.Field())
	if !ok || strings.TrimSpace(date) == "" {
		return true
	}
	_, err := time.Parse(config.TIME_PARSE_FORMAT, strings.TrimSpace(date))
	return err == nil
}

// gtfield passes when the field is after the named sibling field, or when either side is absent.
var gtfield validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fieldString(fl.Field())
	if !ok || strings.TrimSpace(date) == "" {
		return true
	}
	datetime, err := time.Parse(config.TIME_PARSE_FORMAT, strings.TrimSpace(date))
	if err != nil {
		return false
	}
	fieldValue, ok := fieldString(fl.Parent().FieldByName(fl.Param()))
	if !ok || strings.TrimSpace(fieldValue) == "" {
		return true
	}
	fielddatetime, err := time.Parse(config.TIME_PARSE_FORMAT, strings.TrimSpace(fieldValue))
	if err != nil {
		return true
	}
	return datetime.After(fielddatetime)
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("eventdate", eventDateTimeValidatorFunc)
		v.RegisterValidation("saledate", saleDateTimeValidatorFunc)
		v.RegisterValidation("gtdate", gtfield)
	}
}

// abortWithError maps the error taxonomy onto HTTP responses.
func abortWithError(ctx *gin.Context, err error) {
	if verr, ok := types.IsValidationError(err); ok {
		ctx.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": verr.Error(), "errors": verr.Messages})
		return
	}
	switch {
	case errors.Is(err, types.ErrNotFound):
		ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, types.ErrForbidden):
		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, types.ErrUnauthenticated):
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, types.ErrConcurrencyConflict):
		ctx.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "This record was modified by another user. Please reload and try again."})
	default:
		log.Printf("Error handling %s %s: %s\n", ctx.Request.Method, ctx.FullPath(), err.Error())
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

func bindID(ctx *gin.Context) (uint, bool) {
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, false
	}
	return params.ID, true
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(middlewares.SecureHeaders)
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return router
}

func maintenanceModeMiddleware(g *gin.Engine) *gin.Engine {
	g.Use(func(ctx *gin.Context) {
		if !strings.HasPrefix(ctx.Request.URL.Path, apiPrefix) {
			return
		}
		mm := os.Getenv("MAINTENANCE_MODE")
		atoi, err := strconv.ParseBool(mm)
		if err != nil || atoi {
			err := errors.New("server is under maintenance")
			log.Println(err.Error())
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, err.Error())
			return
		}
	})
	return g
}

func corsMiddleware(g *gin.Engine) *gin.Engine {
	appHost := os.Getenv("APP_HOST")
	if os.Getenv("API_ENV") == "local" || appHost == "" {
		g.Use(cors.Default())
		return g
	}
	cc := cors.DefaultConfig()
	cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PATCH", "PUT", "DELETE", "HEAD")
	cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
	cc.ExposeHeaders = append(cc.ExposeHeaders, "Content-Disposition")
	cc.AllowOriginFunc = func(origin string) bool {
		match, _ := regexp.MatchString(appHost, origin)
		return match
	}
	cc.AllowCredentials = true
	cc.AllowAllOrigins = false
	g.Use(cors.New(cc))
	return g
}

func apiv1Group(g *gin.Engine) *gin.RouterGroup {
	apiv1 := g.Group(apiPrefix)
	return apiv1
}

func diagnosticsHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.GET("/diagnostics/ping", func(ctx *gin.Context) {
		if err := db.Ping(); err != nil {
			log.Printf("Error pinging database: %s\n", err.Error())
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return g
}

func publicRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1 = diagnosticsHandlers(apiv1)
	apiv1 = catalogHandlers(apiv1)
	apiv1 = categoryHandlers(apiv1)
	return apiv1
}

func guestAuthRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	guest := apiv1.Group("/auth")
	guest.
		POST("/login", func(ctx *gin.Context) {
			token, status, err := controllers.AuthLogin(ctx)
			if err != nil {
				log.Printf("[AuthLogin] error: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}

			ctx.JSON(http.StatusOK, gin.H{
				"token": token,
			})
		}).
		POST("/register", func(ctx *gin.Context) {
			user, status, err := controllers.AuthRegister(ctx)
			if err != nil {
				log.Printf("[AuthRegister] error: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}

			ctx.JSON(status, gin.H{"id": user.ID, "email": user.Email})
		})
	return guest
}

func authorizedRoutes(g *gin.Engine) *gin.RouterGroup {
	authorized := g.Group(apiPrefix)
	authorized.Use(middlewares.AuthMiddleware)
	{
		authorized = eventHandlers(authorized)
		authorized = ticketHandlers(authorized)
		authorized = bookingHandlers(authorized)
		authorized = transactionHandlers(authorized)
		authorized = admissionHandlers(authorized)
		authorized = reportHandlers(authorized)
		authorized = adminCategoryHandlers(authorized)
	}
	return authorized
}

// buildRouter wires middleware and every route group onto a fresh engine.
func buildRouter() *gin.Engine {
	router := setupRouter()
	router = corsMiddleware(router)
	router = maintenanceModeMiddleware(router)

	publicRoutes(router)
	guestAuthRoutes(router)
	authorizedRoutes(router)
	return router
}

func initLogger() {
	cwd, _ := os.Getwd()
	logsDir := path.Join(cwd, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		log.Printf("Could not create logs directory: %s\n", err.Error())
		return
	}
	serverLogs := path.Join(logsDir, "server.log")
	apiLogs := path.Join(logsDir, "api.log")
	gin.ForceConsoleColor()

	f, err := os.Create(apiLogs)
	if err == nil {
		gin.DefaultWriter = io.MultiWriter(f, os.Stdout)
	}
	log.SetOutput(&lumberjack.Logger{
		Filename:   serverLogs,
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	})
}

// checkRequiredEnv fails when a setting the server cannot run without is missing.
func checkRequiredEnv() error {
	if len(config.GetJWTSecret()) == 0 {
		return errors.New("JWT_SECRET is not set")
	}
	return nil
}

func main() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			panic(err)
		}
	}
	if err := checkRequiredEnv(); err != nil {
		panic(err)
	}
	initLogger()
	registerValidators()

	gdb := boot.InitDb()
	boot.Bootstrap(gdb)
	boot.InitScheduler()
	defer boot.StopScheduler()

	router := buildRouter()

	port := config.GetPort()
	if os.Getenv("TLS_ENABLE") == "true" {
		cwd, _ := os.Getwd()
		certpath := path.Join(cwd, "certificates", "localhost.pem")
		keypath := path.Join(cwd, "certificates", "localhost-key.pem")
		if err := router.RunTLS(port, certpath, keypath); err != nil {
			log.Fatalf("Failed to start server: %s", err)
		}
		return
	}
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %s", err)
	}
}
