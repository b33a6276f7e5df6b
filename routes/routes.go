package routes

import (
	"time"

	"lending_register/app"
	"lending_register/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	s := controllers.GetSrv(a)
	authCtl := controllers.NewAuthController(s)
	itemCtl := controllers.NewItemController(s)
	regCtl := controllers.NewRegisterController(s)
	eventsCtl := controllers.NewEventsController(s)

	authMW := app.AuthRequired(a.AppSessions(), s.Repo, a.Config)
	adminMW := app.AdminOnly()
	superMW := app.SuperAdminOnly()
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)

	// ------------------------------
	// Auth
	// ------------------------------
	auth := r.Group("/auth")
	{
		auth.POST("/login", authCtl.Login)
		auth.POST("/logout", authMW, authCtl.Logout)
		auth.POST("/logout-all", authMW, authCtl.LogoutAll)
		auth.GET("/whoami", authMW, authCtl.WhoAmI)
	}

	// ------------------------------
	// Items (stock info)
	// ------------------------------
	items := r.Group("/api/items", authMW, seenMW)
	{
		items.GET("", itemCtl.ListItems)
		items.GET("/:id", itemCtl.GetItem)
	}
	itemsAdmin := r.Group("/api/items", authMW, adminMW)
	{
		itemsAdmin.POST("", itemCtl.CreateItem)
	}
	itemsSuper := r.Group("/api/items", authMW, superMW)
	{
		itemsSuper.PUT("/:id/counts", itemCtl.UpdateItemCounts)
		itemsSuper.DELETE("/:id", itemCtl.DeleteItem)
	}

	// ------------------------------
	// Register (issue / return lifecycle)
	// ------------------------------
	txs := r.Group("/api/transactions", authMW, seenMW)
	{
		txs.GET("", regCtl.List) // ?status=issued|returned&q=
		txs.GET("/:id", regCtl.Get)
	}
	txAdmin := r.Group("/api/transactions", authMW, adminMW)
	{
		txAdmin.POST("", regCtl.Issue)
		txAdmin.PUT("/:id", regCtl.Edit)
		txAdmin.POST("/:id/return", regCtl.Return)
		txAdmin.POST("/:id/undo-return", regCtl.UndoReturn)
		txAdmin.DELETE("/:id", regCtl.Delete)
	}

	// Stock repair
	r.POST("/api/resync", authMW, adminMW, regCtl.Resync)

	// Change feed
	r.GET("/api/events", authMW, eventsCtl.Stream)
}
