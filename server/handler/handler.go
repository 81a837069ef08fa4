package handler

import (
	"context"
	"github.com/gin-gonic/gin"
	"maestro-dashboard/domain/knowledge"
)

// TableLoader 由 knowledge.Loader 实现。
type TableLoader interface {
	Load(ctx context.Context, reporter knowledge.Reporter) *knowledge.Table
}

type Handler struct {
	loader TableLoader
}

func New(loader TableLoader) *Handler {
	return &Handler{loader: loader}
}

// load 读取知识表，并收集加载过程中需要展示给用户的错误信息。
func load(ctx *gin.Context, loader TableLoader) (*knowledge.Table, []string) {
	var messages knowledge.Messages
	table := loader.Load(ctx.Request.Context(), &messages)
	if messages == nil {
		messages = knowledge.Messages{}
	}
	return table, messages
}

// truncateTarget 截断到 maxTargetLength 字节以内，不拆分多字节字符。
func truncateTarget(target string) string {
	if len(target) <= maxTargetLength {
		return target
	}

	end := 0
	for i := range target {
		if i > maxTargetLength {
			break
		}
		end = i
	}
	return target[:end]
}
