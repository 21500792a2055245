package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	voiceCallHandler "github.com/nexmo-community/dial-ynab/internal/voicecall/handler"
)

type API struct {
	router           *gin.RouterGroup
	voiceCallHandler voiceCallHandler.Handler
	enableBalanceAPI bool
}

func New(router *gin.RouterGroup, voiceCallHandler voiceCallHandler.Handler, enableBalanceAPI bool) API {
	return API{
		router:           router,
		voiceCallHandler: voiceCallHandler,
		enableBalanceAPI: enableBalanceAPI,
	}
}

func (a *API) RegisterRoutes() {
	a.Health()

	webhookGroup := a.router.Group("/webhooks")
	{
		webhookGroup.GET("/answer", a.voiceCallHandler.HandleAnswer)
		webhookGroup.POST("/events", a.voiceCallHandler.HandleEvent)
		webhookGroup.POST("/answer/twilio", a.voiceCallHandler.HandleAnswerTwilio)
	}

	a.router.GET(voiceCallHandler.TranscriptionPath, a.voiceCallHandler.HandleTranscription)
	a.router.GET(voiceCallHandler.TwilioTranscriptionPath, a.voiceCallHandler.HandleTwilioMediaStream)

	if a.enableBalanceAPI {
		balanceGroup := a.router.Group("/api/balances")
		balanceGroup.GET("", a.voiceCallHandler.HandleListBalances)
		balanceGroup.GET("/resolve", a.voiceCallHandler.HandleResolveCategory)
	}
}

func (a *API) Health() {
	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
}
