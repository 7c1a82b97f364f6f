package main

import (
	"log"
	"os"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/handlers"
	"proposalbuilder/services"
)

func main() {
	app := pocketbase.New()

	var issuerPath string
	var sessionTTL time.Duration
	app.RootCmd.PersistentFlags().StringVar(&issuerPath, "issuer", "",
		"YAML file overriding the issuer company profile")
	app.RootCmd.PersistentFlags().DurationVar(&sessionTTL, "session-ttl", services.DefaultSessionTTL,
		"how long an idle proposal session is kept in memory")

	sessions := services.NewSessionRegistry()

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		issuer, err := services.LoadIssuer(issuerPath)
		if err != nil {
			log.Printf("Warning: issuer profile not loaded, using defaults: %v", err)
		}

		// Purge idle sessions every five minutes
		app.Cron().MustAdd("purgeIdleSessions", "*/5 * * * *", func() {
			if n := sessions.PurgeIdle(sessionTTL); n > 0 {
				log.Printf("sessions: purged %d idle sessions, %d live", n, sessions.Len())
			}
		})

		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		se.Router.BindFunc(handlers.SessionMiddleware(sessions))

		// ── Proposal ─────────────────────────────────────────────
		se.Router.GET("/proposal", handlers.HandleProposalView(issuer))
		se.Router.POST("/proposal/details", handlers.HandleProposalDetails(issuer))

		// ── Line items ───────────────────────────────────────────
		se.Router.POST("/proposal/items", handlers.HandleAddItem())
		se.Router.POST("/proposal/items/remove-last", handlers.HandleRemoveLastItem())
		se.Router.POST("/proposal/items/clear", handlers.HandleClearItems())
		se.Router.POST("/proposal/items/import", handlers.HandleItemImport())
		se.Router.GET("/proposal/items/template", handlers.HandleItemTemplateDownload())
		se.Router.PATCH("/proposal/items/{id}", handlers.HandlePatchItem())

		// ── Export ───────────────────────────────────────────────
		se.Router.GET("/proposal/export/pdf", handlers.HandleExportPDF(issuer, time.Now))
		se.Router.GET("/proposal/export/xlsx", handlers.HandleExportExcel(issuer, time.Now))

		// ── Settings ─────────────────────────────────────────────
		se.Router.GET("/settings", handlers.HandleSettingsView())
		se.Router.POST("/settings", handlers.HandleSettingsSave())
		se.Router.POST("/settings/assets/{kind}/remove", handlers.HandleAssetRemove())

		// Home goes to the session's current view
		se.Router.GET("/{$}", handlers.HandleHome())

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
