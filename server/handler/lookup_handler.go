package handler

import (
	"github.com/gin-gonic/gin"
	"maestro-dashboard/domain/dashboard"
	"maestro-dashboard/domain/lookup"
	"maestro-dashboard/logging"
	"maestro-dashboard/server/common"
	"maestro-dashboard/utils"
	"net/http"
)

const maxTargetLength = 128

func (h *Handler) Lookup(ctx *gin.Context) {
	handler := lookupHandler{
		ctx:    ctx,
		loader: h.loader,
	}

	if err := handler.checkParam(); err != nil {
		logging.Default().WithError(err).Errorf("parse req error: %s", err.Error())
		ctx.JSON(http.StatusBadRequest, common.MakeErrorResp(common.CodeParamError, err.Error(), nil))
		return
	}

	ctx.JSON(http.StatusOK, common.MakeSuccessResp(handler.produce()))
}

type lookupHandler struct {
	ctx    *gin.Context
	loader TableLoader

	// params
	target string
}

func (h *lookupHandler) checkParam() error {
	target := h.ctx.Query("target")

	if len(target) > maxTargetLength {
		return utils.WrapErrorf(common.ErrRequestParamInvalid, "target is longer than %d", maxTargetLength)
	}

	h.target = target
	return nil
}

func (h *lookupHandler) produce() *dashboard.View {
	table, errors := load(h.ctx, h.loader)
	return dashboard.Build(table, lookup.Lookup(table, h.target), errors)
}
