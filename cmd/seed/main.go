package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/roster-board/backend/internal/config"
	"github.com/sysu-ecnc-dev/roster-board/backend/internal/repository"
	"github.com/sysu-ecnc-dev/roster-board/backend/internal/seed"
	"github.com/sysu-ecnc-dev/roster-board/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var month int
	var year int

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机员工, 2: 插入随机排班记录, 3: 插入整月演示数据)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.IntVar(&month, "month", int(time.Now().Month()), "排班记录的月份")
	flag.IntVar(&year, "year", time.Now().Year(), "排班记录的年份")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

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

	if err := utils.ValidateMonthYear(month, year); err != nil {
		slog.Error("非法的月份或年份", "error", err)
		return
	}

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的员工数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				staff, err := utils.GenerateRandomStaff(cfg.Seed.Staff.Password, cfg.Email.UserDomain)
				if err != nil {
					slog.Error("无法生成随机员工", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreateStaff(staff); err != nil {
					slog.Error("无法插入员工", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入员工成功", slog.Int("count", n-cnt))
		}
	case 2:
		// 为每个部门插入一条指定月份的随机排班记录
		staffs, err := repo.GetAllStaffs()
		if err != nil {
			slog.Error("无法获取员工列表", slog.String("error", err.Error()))
			return
		}

		cnt := 0
		for _, department := range seed.DemoDepartments() {
			gr := utils.GenerateRandomGroupRoster(department, month, year, staffs)
			if err := repo.CreateGroupRoster(gr); err != nil {
				slog.Error("无法插入排班记录", slog.String("department", department), slog.String("error", err.Error()))
				continue
			}
			cnt++
		}

		slog.Info("插入排班记录成功", slog.Int("count", cnt))
	case 3:
		seed.SeedDemoMonth(repo, month, year)
	default:
		slog.Error("指定的操作非法")
	}
}
