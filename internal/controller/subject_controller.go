package controller

import (
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/service"
	"edulearn_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type SubjectController struct {
	Service *service.SubjectService
}

func NewSubjectController(s *service.SubjectService) *SubjectController {
	return &SubjectController{Service: s}
}

// @Summary 学科列表
// @Tags 学科
// @Produce json
// @Param grade query int false "年级（0 表示全部）"
// @Param includeInactive query bool false "包含停用学科"
// @Success 200 {object} util.Response{data=[]model.Subject}
// @Router /api/subjects [get]
func (c *SubjectController) List(ctx *gin.Context) {
	grade, _ := strconv.Atoi(ctx.Query("grade"))
	subjects, err := c.Service.List(ctx.Request.Context(), model.SubjectFilter{
		Grade:           grade,
		IncludeInactive: util.QueryBool(ctx, "includeInactive"),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, subjects)
}

// @Summary 学科详情
// @Tags 学科
// @Produce json
// @Param id path int true "学科ID"
// @Success 200 {object} util.Response{data=model.Subject}
// @Failure 404 {object} util.Response
// @Router /api/subjects/{id} [get]
func (c *SubjectController) Get(ctx *gin.Context) {
	id, ok := util.ParseID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid id")
		return
	}
	subject, err := c.Service.Get(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, subject)
}

// @Summary 创建学科
// @Tags 题库管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param subject body service.SubjectRequest true "学科信息"
// @Success 201 {object} util.Response{data=model.Subject}
// @Failure 409 {object} util.Response
// @Router /api/admin/subjects [post]
func (c *SubjectController) Create(ctx *gin.Context) {
	var req service.SubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	subject, err := c.Service.Create(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, subject)
}

// @Summary 更新学科
// @Tags 题库管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "学科ID"
// @Param subject body service.SubjectRequest true "学科信息"
// @Success 200 {object} util.Response{data=model.Subject}
// @Router /api/admin/subjects/{id} [put]
func (c *SubjectController) Update(ctx *gin.Context) {
	id, ok := util.ParseID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid id")
		return
	}
	var req service.SubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	subject, err := c.Service.Update(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, subject)
}

// @Summary 删除学科
// @Description 同时删除其下的分类、主题与题目
// @Tags 题库管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "学科ID"
// @Success 200 {object} util.Response
// @Router /api/admin/subjects/{id} [delete]
func (c *SubjectController) Delete(ctx *gin.Context) {
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
