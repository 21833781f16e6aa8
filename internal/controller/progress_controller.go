package controller

import (
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/service"
	"edulearn_backend/internal/util"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	Service *service.ProgressService
}

func NewProgressController(s *service.ProgressService) *ProgressController {
	return &ProgressController{Service: s}
}

// @Summary 保存成绩
// @Description 记录应用内静态测验的成绩
// @Tags 学习进度
// @Accept json
// @Produce json
// @Param request body service.ProgressRequest true "成绩"
// @Success 201 {object} util.Response{data=model.Progress}
// @Router /api/progress [post]
func (c *ProgressController) Save(ctx *gin.Context) {
	var req service.ProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	progress, err := c.Service.Save(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, progress)
}

// @Summary 成绩列表
// @Tags 学习进度
// @Produce json
// @Param userId path string true "用户ID"
// @Param subjectId query int false "学科ID"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/users/{userId}/progress [get]
func (c *ProgressController) List(ctx *gin.Context) {
	page, limit := util.ParsePage(ctx)
	filter := model.ProgressFilter{SubjectID: util.MustParseUint(ctx.Query("subjectId"))}
	list, total, err := c.Service.List(ctx.Request.Context(), ctx.Param("userId"), filter, page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Page(ctx, list, total, page, limit)
}

// @Summary 成绩统计
// @Tags 学习进度
// @Produce json
// @Param userId path string true "用户ID"
// @Success 200 {object} util.Response{data=model.ProgressStats}
// @Router /api/users/{userId}/progress/stats [get]
func (c *ProgressController) Stats(ctx *gin.Context) {
	stats, err := c.Service.Stats(ctx.Request.Context(), ctx.Param("userId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// @Summary 导出成绩
// @Tags 学习进度
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param userId path string true "用户ID"
// @Success 200 {file} file
// @Router /api/users/{userId}/progress/export [get]
func (c *ProgressController) Export(ctx *gin.Context) {
	buf, err := c.Service.Export(ctx.Request.Context(), ctx.Param("userId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	sendWorkbook(ctx, fmt.Sprintf("progress_%s.xlsx", time.Now().Format("20060102")), buf.Bytes())
}

// @Summary 删除成绩
// @Tags 学习进度
// @Produce json
// @Param userId path string true "用户ID"
// @Param id path int true "记录ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/users/{userId}/progress/{id} [delete]
func (c *ProgressController) Delete(ctx *gin.Context) {
	id, ok := util.ParseID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid id")
		return
	}
	if err := c.Service.Delete(ctx.Request.Context(), ctx.Param("userId"), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": id})
}

// @Summary 学科排行榜
// @Description 按用户最佳成绩排序，未启用 Redis 时为空
// @Tags 学习进度
// @Produce json
// @Param id path int true "学科ID"
// @Param limit query int false "数量，默认 10"
// @Success 200 {object} util.Response{data=[]model.LeaderboardEntry}
// @Router /api/subjects/{id}/leaderboard [get]
func (c *ProgressController) Leaderboard(ctx *gin.Context) {
	id, ok := util.ParseID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid id")
		return
	}
	limit, _ := strconv.Atoi(ctx.Query("limit"))
	if limit > util.MaxLimit {
		limit = util.MaxLimit
	}
	entries, err := c.Service.Leaderboard(ctx.Request.Context(), id, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}
