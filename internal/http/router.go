package api

import (
	"log"
	stdhttp "net/http"

	intconfig "flightdesk/internal/config"
	h "flightdesk/internal/http/handlers"
	"flightdesk/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env, hd *h.Handler) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	// The page fetches the dataset itself when it runs without the API.
	if env.DatasetSource == intconfig.SourceFile && env.DatasetPath != "" {
		r.GET("/database.json", func(c *gin.Context) {
			c.Header("Cache-Control", "no-store")
			c.File(env.DatasetPath)
		})
	}

	api := r.Group("/api")
	{
		api.GET("/health", hd.Health)
		api.GET("/time", hd.Time)

		flights := api.Group("/flights")
		flights.GET("/lookup", hd.LookupFlight)
		flights.GET("/slip", hd.FlightSlip)
		flights.GET("/qr", hd.FlightQR)

		kiosk := api.Group("/kiosk")
		kiosk.GET("", hd.KioskState)
		kiosk.PUT("/input", hd.KioskInput)
		kiosk.POST("/search", hd.KioskSearch)
		kiosk.POST("/prompt/dismiss", hd.KioskDismissPrompt)

		scan := kiosk.Group("/scan")
		scan.POST("/start", hd.ScanStart)
		scan.POST("/stop", hd.ScanStop)
		scan.GET("/config", hd.ScanConfig)
		scan.POST("/opened", hd.ScanOpened)
		scan.POST("/failed", hd.ScanFailed)
		scan.POST("/decoded", hd.ScanDecoded)
	}

	return r
}
