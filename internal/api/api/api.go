package api

import (
	"github.com/gin-contrib/cors"
	"github.com/wb-go/wbf/ginext"

	"reunion/cmd/middleware"
	"reunion/internal/service"
)

type Routers struct {
	Service    service.Service
	AdminToken string
	UploadsDir string
}

func NewRouters(r *Routers) *ginext.Engine {
	app := ginext.New("release")

	app.Use(middleware.LoggingMiddleware())
	app.Use(cors.Default())
	apiGroup := app.Group("/v1")

	// Public surface: registration, payment lookup, announcements feed.
	apiGroup.POST("/registration/alumni", r.Service.RegisterAlumni)
	apiGroup.POST("/registration/student", r.Service.RegisterStudent)
	apiGroup.GET("/payment/check/:roll/:reg/:transactionId", r.Service.CheckPayment)
	apiGroup.GET("/announcements", r.Service.ListAnnouncements)

	// Admin dashboard surface.
	admin := apiGroup.Group("", middleware.AdminAuth(r.AdminToken))
	admin.GET("/alumni", r.Service.ListAlumni)
	admin.GET("/student", r.Service.ListStudents)
	admin.GET("/registration/:id", r.Service.GetRegistration)
	admin.PUT("/alumni/paymentUpdate/:id/:status", r.Service.UpdatePaymentStatus)
	admin.PUT("/student/paymentUpdate/:id/:status", r.Service.UpdatePaymentStatus)
	admin.PUT("/registration/:id", r.Service.UpdateRegistration)
	admin.DELETE("/registration/:id", r.Service.DeleteRegistration)
	admin.POST("/announcements", r.Service.CreateAnnouncement)
	admin.DELETE("/announcements/:id", r.Service.DeleteAnnouncement)

	// Stored profile pictures are served by filename only.
	app.Static("/uploads", r.UploadsDir)

	return app
}
