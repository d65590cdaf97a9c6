package handlers

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestRegisterTradeRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/api/v1")
	RegisterTradeRoutes(g, nil, nil)
	RegisterNotificationRoutes(g, nil)
	RegisterAdminRoutes(g.Group("/admin"), nil)

	routes := r.Routes()
	contains := func(target string) bool {
		for _, rt := range routes {
			if rt.Method+" "+rt.Path == target {
				return true
			}
		}
		return false
	}

	require.True(t, contains("POST /api/v1/transactions"))
	require.True(t, contains("GET /api/v1/transactions"))
	require.True(t, contains("GET /api/v1/transactions/:id"))
	require.True(t, contains("GET /api/v1/transactions/:id/status"))
	require.True(t, contains("POST /api/v1/transactions/:id/confirm-payment"))
	require.True(t, contains("POST /api/v1/transactions/:id/pix"))
	require.True(t, contains("POST /api/v1/transactions/:id/cancel"))
	require.True(t, contains("POST /api/v1/transactions/:id/complete"))
	require.True(t, contains("GET /api/v1/notifications"))
	require.True(t, contains("POST /api/v1/notifications/:id/read"))
	require.True(t, contains("POST /api/v1/admin/transactions/list"))
	require.True(t, contains("POST /api/v1/admin/transactions/:id/fail"))
}
