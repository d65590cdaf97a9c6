package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rioporto/p2p/internal/app/service/notify"
	"github.com/rioporto/p2p/pkg/response"
)

// @Summary      List Notifications
// @Description  Returns the caller's notifications, newest first.
// @Tags         Notification
// @Produce      json
// @Param        limit query int false "Maximum number of rows (default 50, max 100)"
// @Success      200  {object}  handlers.RespNotifications
// @Router       /api/v1/notifications [get]
func ApiListNotifications(svc *notify.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))
		items, err := svc.ListForUser(c.Request.Context(), sessionUserID(c), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(items))
	}
}

// @Summary      Mark Notification Read
// @Description  Marks one of the caller's notifications as read.
// @Tags         Notification
// @Produce      json
// @Param        id path string true "Notification ID"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/notifications/{id}/read [post]
func ApiMarkNotificationRead(svc *notify.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := svc.MarkRead(c.Request.Context(), sessionUserID(c), c.Param("id"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeNotFound, "notification not found"))
				return
			}
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

func RegisterNotificationRoutes(r gin.IRouter, svc *notify.Service) {
	r.GET("/notifications", ApiListNotifications(svc))
	r.POST("/notifications/:id/read", ApiMarkNotificationRead(svc))
}
