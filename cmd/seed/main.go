package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/kosa-recruit/panel-manager/backend/internal/config"
	"github.com/kosa-recruit/panel-manager/backend/internal/repository"
	"github.com/kosa-recruit/panel-manager/backend/internal/seed"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var companyID int64

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入公司组织与成员, 2: 插入招聘公告与投递, 3: 插入面试官历史评价)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量（每个部门的成员数 / 投递数 / 每位面试官的评价数）")
	flag.Int64Var(&companyID, "company-id", 0, "目标公司 ID")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的成员数量")
			return
		}
		seed.SeedOrganization(cfg, repo, n)
	case 2:
		if companyID <= 0 {
			slog.Error("请输入合法的公司 ID")
			return
		}
		if n <= 0 {
			slog.Error("请输入合法的投递数量")
			return
		}
		seed.SeedRecruitment(cfg, repo, companyID, n)
	case 3:
		if companyID <= 0 {
			slog.Error("请输入合法的公司 ID")
			return
		}
		if n <= 0 {
			slog.Error("请输入合法的评价数量")
			return
		}
		seed.SeedEvaluations(cfg, repo, companyID, n)
	default:
		slog.Error("未知的操作", "op", op)
	}
}
