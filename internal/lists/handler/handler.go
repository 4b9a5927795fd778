package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tasklists/tasklists-api/internal/lists"
	"github.com/tasklists/tasklists-api/internal/lists/service"
	"github.com/tasklists/tasklists-api/pkg/apierror"
	"github.com/tasklists/tasklists-api/pkg/middleware"
)

type titleRequest struct {
	Title string `json:"title" binding:"required"`
}

// RegisterListRoutes mounts the list and task routes on rg. rg is expected to
// run the Authenticate gate so middleware.UserID is populated.
func RegisterListRoutes(rg *gin.RouterGroup, svc service.Service) {
	rg.GET("/lists", func(c *gin.Context) {
		out, err := svc.Lists(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			apierror.Internal(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	})

	rg.POST("/lists", func(c *gin.Context) {
		var req titleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apierror.BadRequest(c, err)
			return
		}
		l, err := svc.CreateList(c.Request.Context(), middleware.UserID(c), req.Title)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, l)
	})

	rg.PATCH("/lists/:id", func(c *gin.Context) {
		var p lists.ListPatch
		if err := c.ShouldBindJSON(&p); err != nil {
			apierror.BadRequest(c, err)
			return
		}
		if err := svc.UpdateList(c.Request.Context(), middleware.UserID(c), c.Param("id"), p); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Updated successfully"})
	})

	rg.DELETE("/lists/:id", func(c *gin.Context) {
		removed, err := svc.DeleteList(c.Request.Context(), middleware.UserID(c), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, removed)
	})

	rg.GET("/lists/:id/tasks", func(c *gin.Context) {
		out, err := svc.Tasks(c.Request.Context(), middleware.UserID(c), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	})

	rg.POST("/lists/:id/tasks", func(c *gin.Context) {
		var req titleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apierror.BadRequest(c, err)
			return
		}
		t, err := svc.CreateTask(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Title)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	})

	rg.PATCH("/lists/:id/tasks/:taskId", func(c *gin.Context) {
		var p lists.TaskPatch
		if err := c.ShouldBindJSON(&p); err != nil {
			apierror.BadRequest(c, err)
			return
		}
		err := svc.UpdateTask(c.Request.Context(), middleware.UserID(c), c.Param("id"), c.Param("taskId"), p)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Updated successfully"})
	})

	rg.DELETE("/lists/:id/tasks/:taskId", func(c *gin.Context) {
		removed, err := svc.DeleteTask(c.Request.Context(), middleware.UserID(c), c.Param("id"), c.Param("taskId"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, removed)
	})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.AbortWithStatus(http.StatusNotFound)
	case errors.Is(err, service.ErrEmptyTitle):
		apierror.Invalid(c, "title", err)
	case errors.Is(err, service.ErrEmptyPatch):
		apierror.BadRequest(c, err)
	default:
		apierror.Internal(c, err)
	}
}
