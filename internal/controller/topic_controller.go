package controller

import (
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/service"
	"edulearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TopicController struct {
	Service *service.TopicService
}

func NewTopicController(s *service.TopicService) *TopicController {
	return &TopicController{Service: s}
}

// @Summary 主题列表
// @Tags 学科
// @Produce json
// @Param subjectId query int false "学科ID"
// @Param categoryId query int false "分类ID"
// @Param includeInactive query bool false "包含停用主题"
// @Success 200 {object} util.Response{data=[]model.Topic}
// @Router /api/topics [get]
func (c *TopicController) List(ctx *gin.Context) {
	c.list(ctx, util.MustParseUint(ctx.Query("subjectId")))
}

// @Summary 学科下的主题
// @Tags 学科
// @Produce json
// @Param id path int true "学科ID"
// @Success 200 {object} util.Response{data=[]model.Topic}
// @Router /api/subjects/{id}/topics [get]
func (c *TopicController) ListBySubject(ctx *gin.Context) {
	id, ok := util.ParseID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid id")
		return
	}
	c.list(ctx, id)
}

func (c *TopicController) list(ctx *gin.Context, subjectID uint) {
	topics, err := c.Service.List(ctx.Request.Context(), model.TopicFilter{
		SubjectID:       subjectID,
		CategoryID:      util.MustParseUint(ctx.Query("categoryId")),
		IncludeInactive: util.QueryBool(ctx, "includeInactive"),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, topics)
}

// @Summary 主题详情
// @Tags 学科
// @Produce json
// @Param id path int true "主题ID"
// @Success 200 {object} util.Response{data=model.Topic}
// @Router /api/topics/{id} [get]
func (c *TopicController) Get(ctx *gin.Context) {
	id, ok := util.ParseID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid id")
		return
	}
	topic, err := c.Service.Get(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, topic)
}

// @Summary 创建主题
// @Tags 题库管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param topic body service.TopicRequest true "主题信息"
// @Success 201 {object} util.Response{data=model.Topic}
// @Router /api/admin/topics [post]
func (c *TopicController) Create(ctx *gin.Context) {
	var req service.TopicRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	topic, err := c.Service.Create(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, topic)
}

// @Summary 更新主题
// @Tags 题库管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "主题ID"
// @Param topic body service.TopicRequest true "主题信息"
// @Success 200 {object} util.Response{data=model.Topic}
// @Router /api/admin/topics/{id} [put]
func (c *TopicController) Update(ctx *gin.Context) {
	id, ok := util.ParseID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid id")
		return
	}
	var req service.TopicRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	topic, err := c.Service.Update(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, topic)
}

// @Summary 删除主题
// @Tags 题库管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "主题ID"
// @Success 200 {object} util.Response
// @Router /api/admin/topics/{id} [delete]
func (c *TopicController) Delete(ctx *gin.Context) {
	id, ok := util.ParseID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid id")
		return
	}
	if err := c.Service.Delete(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": id})
}
