// @title EduLearnZA 后端 API
// @version 1.0
// @description EduLearnZA 测验平台的后端服务器：题库、测验会话与学习记录。

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"edulearn_backend/internal/app"
	"edulearn_backend/internal/config"
	"edulearn_backend/internal/util"
	"edulearn_backend/pkg/logger"
	"flag"
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"
)

func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	seedFile := flag.String("seed", "", "导入 YAML 题库文件后退出")
	issueToken := flag.String("issue-token", "", "为指定主体签发管理员 JWT 后退出")
	configDir := flag.String("config", "configs", "配置文件目录")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 签发令牌不需要数据库
	if *issueToken != "" {
		token, err := util.GenerateJWT(*issueToken, util.RoleAdmin, cfg.JWT.Secret, cfg.JWT.ExpireTime)
		if err != nil {
			log.Fatalf("Failed to issue token: %v", err)
		}
		fmt.Println(token)
		return
	}

	// 设置迁移标志，导入题库前同样需要表结构
	cfg.ForceMigrate = *migrate || *migrateOnly || *seedFile != ""
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 迁移完成后直接退出
	if *migrateOnly {
		log.Println("数据库迁移完成，退出程序")
		return
	}

	if *seedFile != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		result, err := application.Seed(ctx, *seedFile)
		if err != nil {
			logger.Log.Fatal("Seed failed", zap.String("file", *seedFile), zap.Error(err))
		}
		logger.Log.Info("Seed completed",
			zap.Int("subjects", result.Subjects),
			zap.Int("categories", result.Categories),
			zap.Int("topics", result.Topics),
			zap.Int("questions", result.Questions),
			zap.Strings("skipped", result.Skipped),
		)
		return
	}

	application.Run()
}
