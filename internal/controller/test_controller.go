package controller

import (
	"edulearn_backend/internal/service"
	"edulearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// TestController 答题会话：出题、交卷、查询
type TestController struct {
	Service *service.QuizService
}

func NewTestController(s *service.QuizService) *TestController {
	return &TestController{Service: s}
}

// @Summary 开始测验
// @Description 按学科/主题/难度抽题，优先抽取最近未做过的题目
// @Tags 测验
// @Accept json
// @Produce json
// @Param request body service.StartTestRequest true "出题条件"
// @Success 201 {object} util.Response{data=service.StartTestResponse}
// @Failure 404 {object} util.Response
// @Router /api/tests/start [post]
func (c *TestController) Start(ctx *gin.Context) {
	var req service.StartTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	resp, err := c.Service.StartTest(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, resp)
}

// @Summary 提交答案
// @Tags 测验
// @Accept json
// @Produce json
// @Param sessionId path string true "会话ID"
// @Param request body service.SubmitTestRequest true "作答"
// @Success 200 {object} util.Response{data=service.SubmitTestResponse}
// @Failure 403 {object} util.Response
// @Failure 409 {object} util.Response
// @Failure 410 {object} util.Response
// @Router /api/tests/{sessionId}/submit [post]
func (c *TestController) Submit(ctx *gin.Context) {
	var req service.SubmitTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	resp, err := c.Service.SubmitTest(ctx.Request.Context(), ctx.Param("sessionId"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// @Summary 会话详情
// @Tags 测验
// @Produce json
// @Param sessionId path string true "会话ID"
// @Param userId query string true "用户ID"
// @Success 200 {object} util.Response{data=model.TestSession}
// @Router /api/tests/{sessionId} [get]
func (c *TestController) Get(ctx *gin.Context) {
	userID := ctx.Query("userId")
	if userID == "" {
		util.BadRequest(ctx, "userId is required")
		return
	}
	session, err := c.Service.GetSession(ctx.Request.Context(), ctx.Param("sessionId"), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, session)
}

// @Summary 用户的测验记录
// @Tags 测验
// @Produce json
// @Param userId path string true "用户ID"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/users/{userId}/tests [get]
func (c *TestController) ListByUser(ctx *gin.Context) {
	page, limit := util.ParsePage(ctx)
	sessions, total, err := c.Service.ListSessions(ctx.Request.Context(), ctx.Param("userId"), page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Page(ctx, sessions, total, page, limit)
}
