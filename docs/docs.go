// Package docs registers the EduLearnZA swagger document with swag.
// Regenerate with: swag init -g main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {"get": {"tags": ["系统"], "summary": "健康检查", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}},
        "/api/subjects": {"get": {"tags": ["学科"], "summary": "学科列表", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
        "/api/subjects/{id}": {"get": {"tags": ["学科"], "summary": "学科详情", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/api/subjects/{id}/categories": {"get": {"tags": ["分类"], "summary": "学科下的分类", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
        "/api/subjects/{id}/topics": {"get": {"tags": ["知识点"], "summary": "学科下的知识点", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
        "/api/subjects/{id}/leaderboard": {"get": {"tags": ["学习记录"], "summary": "学科排行榜", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
        "/api/categories": {"get": {"tags": ["分类"], "summary": "分类列表", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
        "/api/topics": {"get": {"tags": ["知识点"], "summary": "知识点列表", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
        "/api/questions": {"get": {"tags": ["题目"], "summary": "题目列表（不含答案）", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
        "/api/questions/random": {"get": {"tags": ["题目"], "summary": "随机练习题", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/api/tests/start": {"post": {"tags": ["测验"], "summary": "开始测验", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}},
        "/api/tests/{sessionId}/submit": {"post": {"tags": ["测验"], "summary": "提交测验", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}, "410": {"description": "Gone"}}}},
        "/api/tests/{sessionId}": {"get": {"tags": ["测验"], "summary": "测验详情", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/api/progress": {"post": {"tags": ["学习记录"], "summary": "保存测验成绩", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}},
        "/api/users/{userId}/tests": {"get": {"tags": ["测验"], "summary": "用户测验记录", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
        "/api/users/{userId}/progress": {"get": {"tags": ["学习记录"], "summary": "用户成绩列表", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
        "/api/users/{userId}/progress/stats": {"get": {"tags": ["学习记录"], "summary": "成绩统计", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
        "/api/users/{userId}/progress/export": {"get": {"tags": ["学习记录"], "summary": "导出成绩", "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"], "responses": {"200": {"description": "OK"}}}},
        "/api/admin/questions": {"get": {"security": [{"BearerAuth": []}], "tags": ["题目管理"], "summary": "题目列表（含答案）", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/api/admin/questions/import": {"post": {"security": [{"BearerAuth": []}], "tags": ["题目管理"], "summary": "Excel 导入题目", "consumes": ["multipart/form-data"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "EduLearnZA 后端 API",
	Description:      "EduLearnZA 测验平台的后端服务器。",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
