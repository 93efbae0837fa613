package main

import (
	"salesdesk/internal/activity"
	"salesdesk/internal/auth"
	"salesdesk/internal/calls"
	"salesdesk/internal/httpapi"
	"salesdesk/internal/leaderboard"
	"salesdesk/internal/leads"
	"salesdesk/internal/rbac"

	"github.com/gin-gonic/gin"
)

func handlersOf(mgr *auth.Manager, users auth.Directory, store *leads.Store, orch *calls.Orchestrator, act *activity.Poller, board *leaderboard.Poller) httpapi.Handlers {
	return httpapi.Handlers{
		Auth:     mgr,
		Users:    users,
		Store:    store,
		Calls:    orch,
		Activity: act,
		Board:    board,
	}
}

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, authMW gin.HandlerFunc, h httpapi.Handlers) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.POST("/v1/auth/login", h.Login)

	// protected API group
	v1 := r.Group("/v1")
	v1.Use(authMW)
	{
		v1.GET("/me", func(c *gin.Context) {
			uid, _ := auth.UserID(c.Request.Context())
			role, _ := auth.Role(c.Request.Context())
			c.JSON(200, gin.H{"user_id": uid, "name": auth.Name(c.Request.Context()), "role": role})
		})

		// LEADS routes
		leadsGroup := v1.Group("/leads")
		{
			leadsGroup.GET("", h.ListLeads)
			leadsGroup.GET("/jobs", h.ListJobs)
			leadsGroup.GET("/stats", h.LeadStats)
			leadsGroup.GET("/export", h.ExportLeads)
			leadsGroup.GET("/:id", h.GetLead)
		}

		// CALLS routes: one active session per process, agent roles only.
		callsGroup := v1.Group("/calls")
		callsGroup.Use(rbac.RequireAnyRole(rbac.RoleAgent, rbac.RoleSupervisor))
		{
			callsGroup.POST("/start", h.StartCall)
			callsGroup.GET("/active", h.ActiveCall)
			callsGroup.DELETE("/active", h.CancelCall)
			callsGroup.POST("/active/note", h.SetCallNote)
			callsGroup.POST("/active/minimize", h.SetCallMinimized)
			callsGroup.POST("/active/script/choose", h.ChooseScriptOption)
			callsGroup.POST("/active/script/back", h.ScriptBack)
			callsGroup.POST("/active/script/reset", h.ScriptReset)
			callsGroup.POST("/active/outcome", h.SelectOutcome)
			callsGroup.POST("/active/finalize", h.FinalizeCall)
		}

		// Dashboard panels
		v1.GET("/leaderboard", h.Leaderboard)
		v1.GET("/activity", h.ActivityFeed)
		v1.GET("/refresh", h.RefreshCounter)

		// ADMIN routes
		admin := v1.Group("/admin")
		admin.Use(rbac.RequireAnyRole(rbac.RoleSuperAdmin))
		{
			admin.GET("/ping", func(c *gin.Context) {
				c.JSON(200, gin.H{"status": "ok"})
			})
		}
	}
}
