package controllers

import (
	"net/http"
	"strconv"

	"Longshot/models"
	httpctx "Longshot/utils/httpctx"

	"github.com/gin-gonic/gin"
)

func (server *Server) GetMyNotifications(c *gin.Context) {
	userID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	notification := models.Notification{}
	notifications, err := notification.FindUserNotifications(server.DB, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": notifications,
	})
}

func (server *Server) MarkNotificationRead(c *gin.Context) {
	userID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	nid64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	notification := models.Notification{}
	rows, err := notification.MarkRead(server.DB, uint(nid64), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to update notification"})
		return
	}
	if rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "Notification marked read",
	})
}
