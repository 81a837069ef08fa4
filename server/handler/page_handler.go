package handler

import (
	"github.com/gin-gonic/gin"
	"maestro-dashboard/domain/dashboard"
	"maestro-dashboard/domain/lookup"
	"net/http"
)

const PageTemplateName = "dashboard.tmpl"

// Page 渲染仪表盘页面，查询参数 target 可为空。
func (h *Handler) Page(ctx *gin.Context) {
	target := truncateTarget(ctx.Query("target"))

	table, errors := load(ctx, h.loader)
	view := dashboard.Build(table, lookup.Lookup(table, target), errors)

	ctx.HTML(http.StatusOK, PageTemplateName, pageSchema{
		Target: target,
		View:   view,
	})
}

type pageSchema struct {
	Target string
	View   *dashboard.View
}
