package controller

import (
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/service"
	"edulearn_backend/internal/util"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	Service *service.QuestionService
}

func NewQuestionController(s *service.QuestionService) *QuestionController {
	return &QuestionController{Service: s}
}

func questionFilter(ctx *gin.Context) (model.QuestionFilter, bool) {
	filter := model.QuestionFilter{
		SubjectID:       util.MustParseUint(ctx.Query("subjectId")),
		CategoryID:      util.MustParseUint(ctx.Query("categoryId")),
		TopicID:         util.MustParseUint(ctx.Query("topicId")),
		Difficulty:      model.Difficulty(strings.ToLower(ctx.Query("difficulty"))),
		Search:          strings.TrimSpace(ctx.Query("search")),
		IncludeInactive: util.QueryBool(ctx, "includeInactive"),
	}
	if filter.Difficulty != "" && !filter.Difficulty.Valid() {
		util.BadRequest(ctx, "invalid difficulty")
		return filter, false
	}
	return filter, true
}

// @Summary 题目列表（学生端，不含答案）
// @Tags 题目
// @Produce json
// @Param subjectId query int false "学科ID"
// @Param categoryId query int false "分类ID"
// @Param topicId query int false "主题ID"
// @Param difficulty query string false "难度 easy|medium|hard"
// @Param search query string false "题干关键字"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/questions [get]
func (c *QuestionController) ListPublic(ctx *gin.Context) {
	filter, ok := questionFilter(ctx)
	if !ok {
		return
	}
	page, limit := util.ParsePage(ctx)
	list, total, err := c.Service.ListPublic(ctx.Request.Context(), filter, page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Page(ctx, list, total, page, limit)
}

// @Summary 随机练习题
// @Description 练习模式，不创建答题会话，不计入使用次数
// @Tags 题目
// @Produce json
// @Param subjectId query int true "学科ID"
// @Param topicId query int false "主题ID"
// @Param count query int false "题目数量"
// @Success 200 {object} util.Response{data=[]service.PublicQuestion}
// @Failure 404 {object} util.Response
// @Router /api/questions/random [get]
func (c *QuestionController) Random(ctx *gin.Context) {
	filter, ok := questionFilter(ctx)
	if !ok {
		return
	}
	if filter.SubjectID == 0 {
		util.BadRequest(ctx, "subjectId is required")
		return
	}
	count, _ := strconv.Atoi(ctx.Query("count"))
	questions, err := c.Service.Random(ctx.Request.Context(), filter, count)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// @Summary 题目列表（管理端）
// @Tags 题库管理
// @Produce json
// @Security BearerAuth
// @Param subjectId query int false "学科ID"
// @Param topicId query int false "主题ID"
// @Param includeInactive query bool false "包含停用题目"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/questions [get]
func (c *QuestionController) List(ctx *gin.Context) {
	filter, ok := questionFilter(ctx)
	if !ok {
		return
	}
	page, limit := util.ParsePage(ctx)
	list, total, err := c.Service.List(ctx.Request.Context(), filter, page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Page(ctx, list, total, page, limit)
}

// @Summary 题目详情（含答案）
// @Tags 题库管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response{data=model.Question}
// @Router /api/admin/questions/{id} [get]
func (c *QuestionController) Get(ctx *gin.Context) {
	id, ok := util.ParseID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid id")
		return
	}
	q, err := c.Service.Get(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// @Summary 创建题目
// @Tags 题库管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param question body service.QuestionRequest true "题目"
// @Success 201 {object} util.Response{data=model.Question}
// @Failure 400 {object} util.Response
// @Router /api/admin/questions [post]
func (c *QuestionController) Create(ctx *gin.Context) {
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	q, err := c.Service.Create(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// @Summary 批量创建题目
// @Description 全部校验通过后一次性写入，任一题目非法则整体失败
// @Tags 题库管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param questions body []service.QuestionRequest true "题目列表"
// @Success 201 {object} util.Response{data=[]model.Question}
// @Router /api/admin/questions/bulk [post]
func (c *QuestionController) CreateBulk(ctx *gin.Context) {
	var reqs []service.QuestionRequest
	if err := ctx.ShouldBindJSON(&reqs); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	questions, err := c.Service.CreateBulk(ctx.Request.Context(), reqs)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, questions)
}

// @Summary 从 Excel 导入题目
// @Description 表头：subject_id, category_id, topic_id, type, question, option_a..option_f, correct_answer, explanation, difficulty, grade
// @Tags 题库管理
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "xlsx 文件"
// @Success 200 {object} util.Response{data=service.ImportResult}
// @Router /api/admin/questions/import [post]
func (c *QuestionController) Import(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	if !util.HasAllowedExtension(file.Filename, []string{".xlsx"}) {
		util.BadRequest(ctx, "only .xlsx files are supported")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	result, err := c.Service.ImportSpreadsheet(ctx.Request.Context(), src)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 下载题目导入模板
// @Tags 题库管理
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Router /api/admin/questions/import/template [get]
func (c *QuestionController) ImportTemplate(ctx *gin.Context) {
	buf, err := service.QuestionSheetTemplate()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	sendWorkbook(ctx, "questions_template.xlsx", buf.Bytes())
}

// @Summary 更新题目
// @Tags 题库管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "题目ID"
// @Param question body service.QuestionRequest true "题目"
// @Success 200 {object} util.Response{data=model.Question}
// @Router /api/admin/questions/{id} [put]
func (c *QuestionController) Update(ctx *gin.Context) {
	id, ok := util.ParseID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid id")
		return
	}
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	q, err := c.Service.Update(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// @Summary 删除题目
// @Tags 题库管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/admin/questions/{id} [delete]
func (c *QuestionController) Delete(ctx *gin.Context) {
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

// @Summary 上传题目配图
// @Tags 题库管理
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "题目ID"
// @Param image formData file true "图片（png/jpg/gif/webp，≤5MB）"
// @Success 200 {object} util.Response{data=model.Question}
// @Router /api/admin/questions/{id}/image [post]
func (c *QuestionController) UploadImage(ctx *gin.Context) {
	id, ok := util.ParseID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid id")
		return
	}
	file, err := ctx.FormFile("image")
	if err != nil {
		util.BadRequest(ctx, "image is required")
		return
	}
	q, err := c.Service.AttachImage(ctx.Request.Context(), id, file)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// @Summary 题目使用统计
// @Description 按主题统计题量与累计使用次数
// @Tags 题库管理
// @Produce json
// @Security BearerAuth
// @Param subjectId query int true "学科ID"
// @Success 200 {object} util.Response{data=[]model.TopicQuestionStat}
// @Router /api/admin/questions/stats [get]
func (c *QuestionController) Stats(ctx *gin.Context) {
	subjectID := util.MustParseUint(ctx.Query("subjectId"))
	if subjectID == 0 {
		util.BadRequest(ctx, "subjectId is required")
		return
	}
	stats, err := c.Service.Stats(ctx.Request.Context(), subjectID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
