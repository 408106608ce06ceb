package main

import (
	"descubre/src/boot"
	"descubre/src/common"
	"descubre/src/config"
	"descubre/src/db"
	"descubre/src/middlewares"
	"descubre/src/models"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"regexp"
	"time"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	apiPrefix string = "/api/v1"
)

// Assigned once at startup by setupCheckout; handlers and tests reach
// the checkout collaborators through these package globals.
var (
	notifier  *common.NotificationBus
	inventory common.InventorySource
	checkout  *common.Manager
)

var eventDateTimeValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	datetime, err := time.Parse(config.TIME_PARSE_FORMAT, date)
	if err != nil {
		return false
	}
	if ok {
		today := time.Now()
		if today.After(datetime) {
			return false
		}
	}
	return true
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	return router
}

func apiv1Group(g *gin.Engine) *gin.RouterGroup {
	apiv1 := g.Group(apiPrefix)
	return apiv1
}

func publicRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	eventHandlers(apiv1)
	reviewHandlers(apiv1)
	checkoutHandlers(apiv1)
	notificationHandlers(apiv1)
	return apiv1
}

func authorizedRoutes(g *gin.Engine) *gin.RouterGroup {
	authorized := g.Group(apiPrefix)
	authorized.Use(middlewares.AuthMiddleware)
	bookingHandlers(authorized)
	eventAdminHandlers(authorized)
	return authorized
}

// setupCheckout wires the database-backed collaborators into the checkout
// manager. Drained notifications are also persisted for later inspection.
func setupCheckout() {
	notifier = common.NewNotificationBus(100)
	notifier.Persist = func(n models.Notification) {
		if err := db.GetDb().Create(&n).Error; err != nil {
			log.Printf("Error persisting notification: %s\n", err.Error())
		}
	}
	inventory = common.DBInventory{}
	checkout = common.NewManager(inventory, common.DBIdentityService{}, common.DBBookingService{}, notifier)
}

func initLogger() {
	cwd, _ := os.Getwd()
	serverLogs := path.Join(cwd, "logs", "server.log")
	apiLogs := path.Join(cwd, "logs", "api.log")
	gin.ForceConsoleColor()

	f, _ := os.Create(apiLogs)
	gin.DefaultWriter = io.MultiWriter(f, os.Stdout)
	log.SetOutput(&lumberjack.Logger{
		Filename:   serverLogs,
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	})
}

func main() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			panic(err)
		}
	}
	initLogger()

	boot.InitDb()
	boot.SeedData()
	setupCheckout()

	router := setupRouter()

	appHost := os.Getenv("APP_HOST")
	if apiEnv == "local" {
		router.Use(cors.Default())
	} else {
		cc := cors.DefaultConfig()
		cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PUT", "DELETE", "HEAD")
		cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
		cc.AllowOriginFunc = func(origin string) bool {
			match, _ := regexp.MatchString(appHost, origin)
			return match
		}
		cc.AllowCredentials = true
		cc.AllowAllOrigins = false
		router.Use(cors.New(cc))
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("bookabledate", eventDateTimeValidatorFunc)
	}

	publicRoutes(router)
	authorizedRoutes(router)

	boot.InitScheduler(checkout)
	defer boot.StopScheduler()

	if err := router.Run(":9090"); err != nil {
		log.Fatalf("error: %s", err.Error())
	}
}
