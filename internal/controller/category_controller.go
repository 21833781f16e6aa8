package controller

import (
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/service"
	"edulearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	Service *service.CategoryService
}

func NewCategoryController(s *service.CategoryService) *CategoryController {
	return &CategoryController{Service: s}
}

// @Summary 分类列表
// @Tags 学科
// @Produce json
// @Param subjectId query int false "学科ID"
// @Param includeInactive query bool false "包含停用分类"
// @Success 200 {object} util.Response{data=[]model.Category}
// @Router /api/categories [get]
func (c *CategoryController) List(ctx *gin.Context) {
	c.list(ctx, util.MustParseUint(ctx.Query("subjectId")))
}

// @Summary 学科下的分类
// @Tags 学科
// @Produce json
// @Param id path int true "学科ID"
// @Success 200 {object} util.Response{data=[]model.Category}
// @Router /api/subjects/{id}/categories [get]
func (c *CategoryController) ListBySubject(ctx *gin.Context) {
	id, ok := util.ParseID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid id")
		return
	}
	c.list(ctx, id)
}

func (c *CategoryController) list(ctx *gin.Context, subjectID uint) {
	categories, err := c.Service.List(ctx.Request.Context(), model.CategoryFilter{
		SubjectID:       subjectID,
		IncludeInactive: util.QueryBool(ctx, "includeInactive"),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, categories)
}

// @Summary 分类详情
// @Tags 学科
// @Produce json
// @Param id path int true "分类ID"
// @Success 200 {object} util.Response{data=model.Category}
// @Router /api/categories/{id} [get]
func (c *CategoryController) Get(ctx *gin.Context) {
	id, ok := util.ParseID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid id")
		return
	}
	category, err := c.Service.Get(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, category)
}

// @Summary 创建分类
// @Tags 题库管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category body service.CategoryRequest true "分类信息"
// @Success 201 {object} util.Response{data=model.Category}
// @Router /api/admin/categories [post]
func (c *CategoryController) Create(ctx *gin.Context) {
	var req service.CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	category, err := c.Service.Create(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, category)
}

// @Summary 更新分类
// @Tags 题库管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "分类ID"
// @Param category body service.CategoryRequest true "分类信息"
// @Success 200 {object} util.Response{data=model.Category}
// @Router /api/admin/categories/{id} [put]
func (c *CategoryController) Update(ctx *gin.Context) {
	id, ok := util.ParseID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid id")
		return
	}
	var req service.CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	category, err := c.Service.Update(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, category)
}

// @Summary 删除分类
// @Tags 题库管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "分类ID"
// @Success 200 {object} util.Response
// @Router /api/admin/categories/{id} [delete]
func (c *CategoryController) Delete(ctx *gin.Context) {
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
