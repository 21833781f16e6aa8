package service

import (
	"bytes"
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/util"
	"edulearn_backend/pkg/logger"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// 题目导入表头，列顺序不限，按名称匹配（不区分大小写）
var questionSheetColumns = []string{
	"subject_id", "category_id", "topic_id", "type", "question",
	"option_a", "option_b", "option_c", "option_d", "option_e", "option_f",
	"correct_answer", "explanation", "difficulty", "grade",
}

var optionColumns = []string{"option_a", "option_b", "option_c", "option_d", "option_e", "option_f"}

// QuestionSheetRow 表格中的一行题目，Row 为表格中的行号（从 1 开始，含表头）
type QuestionSheetRow struct {
	Row     int
	Request QuestionRequest
	Err     error
}

// ParseQuestionSheet 读取第一个工作表，表头之后的空行会被跳过
func ParseQuestionSheet(r io.Reader) ([]QuestionSheetRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidFile, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Log.Warn("close workbook failed", zap.Error(err))
		}
	}()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%w: workbook has no sheets", util.ErrInvalidFile)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %s is empty", util.ErrInvalidFile, sheet)
	}

	header := make(map[string]int)
	for i, name := range rows[0] {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"subject_id", "question", "correct_answer"} {
		if _, ok := header[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %s", util.ErrInvalidFile, required)
		}
	}

	var result []QuestionSheetRow
	for i, row := range rows[1:] {
		cell := func(name string) string {
			idx, ok := header[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		if isBlankRow(row) {
			continue
		}

		item := QuestionSheetRow{Row: i + 2}
		req := QuestionRequest{
			Type:          cell("type"),
			Text:          cell("question"),
			CorrectAnswer: cell("correct_answer"),
			Explanation:   cell("explanation"),
			Difficulty:    cell("difficulty"),
		}
		for _, col := range optionColumns {
			if v := cell(col); v != "" {
				req.Options = append(req.Options, v)
			}
		}

		var parseErr error
		req.SubjectID, parseErr = parseUintCell(cell("subject_id"), "subject_id", parseErr)
		req.CategoryID, parseErr = parseUintCell(cell("category_id"), "category_id", parseErr)
		req.TopicID, parseErr = parseUintCell(cell("topic_id"), "topic_id", parseErr)
		if g := cell("grade"); g != "" && parseErr == nil {
			grade, err := strconv.Atoi(g)
			if err != nil {
				parseErr = fmt.Errorf("%w: grade %q is not a number", util.ErrInvalidQuestion, g)
			}
			req.Grade = grade
		}

		item.Request = req
		item.Err = parseErr
		result = append(result, item)
	}
	return result, nil
}

func parseUintCell(v, column string, prev error) (uint, error) {
	if prev != nil || v == "" {
		return 0, prev
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", util.ErrInvalidQuestion, column, v)
	}
	return uint(n), nil
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// QuestionSheetTemplate 生成带表头的空白导入模板
func QuestionSheetTemplate() (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Questions"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	header := make([]interface{}, len(questionSheetColumns))
	for i, c := range questionSheetColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	return f.WriteToBuffer()
}

var progressSheetHeader = []interface{}{
	"Quiz", "Subject ID", "Topic ID", "Score", "Total Questions", "Percentage", "Time Taken (s)", "Completed At",
}

// BuildProgressWorkbook 导出用户成绩记录
func BuildProgressWorkbook(userID string, records []model.Progress) (*bytes.Buffer, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Progress"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, "A1", &progressSheetHeader); err != nil {
		return nil, err
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", "H1", style); err != nil {
		return nil, err
	}

	for i, p := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			p.QuizTitle,
			p.SubjectID,
			p.TopicID,
			p.Score,
			p.TotalQuestions,
			p.Percentage,
			p.TimeTaken,
			p.CompletedAt.Format(util.TimeFormat),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 40); err != nil {
		return nil, err
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   "EduLearnZA progress",
		Subject: userID,
		Creator: "EduLearnZA",
	}); err != nil {
		return nil, err
	}
	return f.WriteToBuffer()
}
