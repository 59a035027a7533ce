package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/minaret-labs/minaretd/internal/coordinator"
	"github.com/minaret-labs/minaretd/internal/http/api"
	"github.com/minaret-labs/minaretd/internal/http/api/packets"
	"github.com/minaret-labs/minaretd/internal/playback"
	"github.com/minaret-labs/minaretd/internal/prayer"
)

type ControlController struct {
	coord *coordinator.Coordinator
}

func NewControlController(coord *coordinator.Coordinator) *ControlController {
	return &ControlController{coord: coord}
}

// ControlModule exposes the token-guarded control surface: trigger a
// playback, force a refresh, and let the playback subsystem report a
// completed play.
func ControlModule(coord *coordinator.Coordinator) api.Module {
	ctl := NewControlController(coord)
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/play", ctl.play)
		c.POST("/refresh", ctl.refresh)
		c.POST("/played", ctl.played)
	})
}

func validPrayer(name string) bool {
	if name == playback.TestPrayer || name == string(prayer.Suhoor) {
		return true
	}
	for _, n := range prayer.Order {
		if name == string(n) {
			return true
		}
	}
	return false
}

func (c *ControlController) play(ctx *gin.Context) (any, *api.APIError) {
	var request packets.PlayRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if !validPrayer(request.Prayer) {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "unknown prayer name"}
	}

	if err := c.coord.Dispatcher().PlayAzan(request.Prayer); err != nil {
		log.Error().Err(err).Str("prayer", request.Prayer).Msg("manual play dispatch failed")
		return nil, &api.APIError{Code: http.StatusBadGateway, Message: "failed to dispatch playback"}
	}
	return gin.H{"status": "dispatched", "prayer": request.Prayer}, nil
}

func (c *ControlController) refresh(ctx *gin.Context) (any, *api.APIError) {
	c.coord.Refresh()
	return gin.H{"status": "refresh requested"}, nil
}

// played records an azan that actually reached speakers. Test plays are
// not recorded.
func (c *ControlController) played(ctx *gin.Context) (any, *api.APIError) {
	var request packets.PlayedRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if request.Prayer == playback.TestPrayer {
		return gin.H{"status": "ignored"}, nil
	}
	if !validPrayer(request.Prayer) {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "unknown prayer name"}
	}

	c.coord.MarkPlayed(ctx.Request.Context(), prayer.Name(request.Prayer))
	return gin.H{"status": "recorded", "prayer": request.Prayer}, nil
}
