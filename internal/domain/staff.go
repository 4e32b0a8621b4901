package domain

import (
	"time"
)

type Role string

const (
	RoleStaff    Role = "员工"
	RoleTeamLead Role = "组长"
	RoleAdmin    Role = "管理员"
)

// 部门编码，排序时按照固定的优先级排列
const (
	DeptCustomerService = "customer-service"
	DeptImportExport    = "import-export"
	DeptWarehouse       = "warehouse"
	DeptAccounting      = "accounting"
	DeptTeamLead        = "team-lead"
)

// DepartmentOrder 是已知部门的固定排序，组长组永远排在最后
var DepartmentOrder = []string{
	DeptCustomerService,
	DeptImportExport,
	DeptWarehouse,
	DeptAccounting,
}

type Staff struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Department   string    `json:"department"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}
