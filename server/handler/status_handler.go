package handler

import (
	"fmt"
	"github.com/gin-gonic/gin"
	"maestro-dashboard/server/common"
	"net/http"
)

func (h *Handler) Status(ctx *gin.Context) {
	table, errors := load(ctx, h.loader)

	ctx.JSON(http.StatusOK, common.MakeSuccessResp(statusRespSchema{
		Rows:    table.Len(),
		Message: fmt.Sprintf("AXON connected: %d records loaded", table.Len()),
		Errors:  errors,
	}))
}

type statusRespSchema struct {
	Rows    int      `json:"rows"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

func Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, common.MakeSuccessResp("ok"))
}
