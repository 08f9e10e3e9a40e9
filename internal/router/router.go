package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/hamrokrishi/advisory-service/api"
	"github.com/hamrokrishi/advisory-service/internal/handler"
	"github.com/hamrokrishi/advisory-service/internal/ws"
)

const (
	pathHealth  = "/health"
	pathReady   = "/ready"
	pathSwagger = "/swagger"
	pathWS      = "/ws"
)

type Handlers struct {
	Ticket    *handler.TicketHandler
	Message   *handler.MessageHandler
	Directory *handler.DirectoryHandler
	WS        *ws.Handler
}

func New(h Handlers) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET(pathHealth, handler.Health)
	r.GET(pathReady, handler.Ready)
	r.GET(pathSwagger, func(c *gin.Context) { c.Redirect(http.StatusFound, pathSwagger+"/") })
	r.GET(pathSwagger+"/*any", func(c *gin.Context) {
		if strings.TrimPrefix(c.Param("any"), "/") == "openapi.json" {
			c.Data(http.StatusOK, "application/json", api.OpenAPISpec)
			return
		}
		if strings.TrimPrefix(c.Param("any"), "/") == "" {
			c.Request.URL.Path = pathSwagger + "/index.html"
			c.Request.RequestURI = pathSwagger + "/index.html"
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/openapi.json"))(c)
	})

	if h.WS != nil {
		r.GET(pathWS, gin.WrapH(h.WS))
	}

	v1 := r.Group("/api/v1")
	{
		v1.GET("/offices", h.Directory.ListOffices)
		v1.GET("/offices/:id/technicians", h.Directory.ListTechnicians)

		v1.POST("/tickets", h.Ticket.Create)
		v1.GET("/tickets", h.Ticket.List)
		v1.GET("/tickets/:id", h.Ticket.Get)
		v1.POST("/tickets/:id/view", h.Ticket.MarkViewed)
		v1.POST("/tickets/:id/close", h.Ticket.Close)

		v1.POST("/tickets/:id/messages", h.Message.Post)
		v1.GET("/tickets/:id/messages", h.Message.List)
	}

	return r
}
