package handler

import (
	"fmt"
	"github.com/gin-gonic/gin"
	"maestro-dashboard/domain/dashboard"
	"maestro-dashboard/domain/knowledge"
	"maestro-dashboard/domain/lookup"
	"maestro-dashboard/domain/report"
	"maestro-dashboard/logging"
	"maestro-dashboard/server/common"
	"maestro-dashboard/utils"
	"net/http"
	"strings"
)

func (h *Handler) Export(ctx *gin.Context) {
	handler := exportHandler{
		ctx:    ctx,
		loader: h.loader,
	}

	if err := handler.checkParam(); err != nil {
		logging.Default().WithError(err).Errorf("parse req error: %s", err.Error())
		ctx.JSON(http.StatusBadRequest, common.MakeErrorResp(common.CodeParamError, err.Error(), nil))
		return
	}

	rep, view := handler.produce()
	if rep == nil {
		ctx.JSON(http.StatusNotFound, common.MakeErrorResp(common.CodeNotFound, view.Message, view))
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, rep.Filename))
	ctx.Data(http.StatusOK, rep.ContentType, rep.Data)
}

type exportHandler struct {
	ctx    *gin.Context
	loader TableLoader

	// params
	target string
}

func (h *exportHandler) checkParam() error {
	target := h.ctx.Query("target")

	if len(strings.TrimSpace(target)) == 0 {
		return utils.WrapError(common.ErrRequestParamEmpty, "query 'target' is empty")
	}

	if len(target) > maxTargetLength {
		return utils.WrapErrorf(common.ErrRequestParamInvalid, "target is longer than %d", maxTargetLength)
	}

	h.target = target
	return nil
}

// produce 命中时返回报表，否则返回说明原因的 View。
func (h *exportHandler) produce() (*report.Report, *dashboard.View) {
	table, errors := load(h.ctx, h.loader)

	outcome := lookup.Lookup(table, h.target)
	if outcome.Kind != lookup.KindMatch {
		return nil, dashboard.Build(table, outcome, errors)
	}

	return report.Export(table.Columns, []knowledge.Row{*outcome.Row}, outcome.Query), nil
}
