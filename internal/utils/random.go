package utils

import (
	"math/rand"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/roster-board/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, pinyin := range pinyinArray {
		length := rand.Intn(len(pinyin)) + 1
		username += pinyin[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

var departments = []string{
	domain.DeptCustomerService,
	domain.DeptImportExport,
	domain.DeptWarehouse,
	domain.DeptAccounting,
	domain.DeptTeamLead,
}

func GenerateRandomDepartment() string {
	return departments[rand.Intn(len(departments))]
}

func GenerateRandomStaff(password string, emailDomainName string) (*domain.Staff, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	department := GenerateRandomDepartment()
	role := domain.RoleStaff
	if department == domain.DeptTeamLead {
		role = domain.RoleTeamLead
	}

	staff := &domain.Staff{
		ID:           NewStaffID(),
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Department:   department,
		Role:         role,
	}

	return staff, nil
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}

var idLetters = []rune("abcdefghijklmnopqrstuvwxyz")

func GenerateRandomID(letterLength int, digitLength int) string {
	random_id := make([]rune, letterLength+digitLength)
	for i := range random_id {
		if i < letterLength {
			random_id[i] = idLetters[rand.Intn(len(idLetters))]
		} else {
			random_id[i] = rune(digits[rand.Intn(len(digits))])
		}
	}
	return string(random_id)
}

func NewStaffID() string {
	return "stf_" + GenerateRandomID(6, 6)
}

func NewSnapshotID() string {
	return "copy_" + GenerateRandomID(6, 6)
}

var statusCodes = []string{
	domain.StatusOff,
	domain.StatusHalfOff,
	domain.StatusOnLeave,
	domain.StatusReturned,
	domain.StatusUnpaid,
}

func GenerateRandomStatusCode() string {
	return statusCodes[rand.Intn(len(statusCodes))]
}

// GenerateRandomGroupRoster 生成一个部门某月的随机排班记录，
// 该部门每个员工要么随机进入某个班次，要么进入等待池
func GenerateRandomGroupRoster(department string, month, year int, staffs []*domain.Staff) *domain.GroupRoster {
	gr := &domain.GroupRoster{
		Department: department,
		Month:      month,
		Year:       year,
		Shifts:     domain.DefaultShifts(),
		Waiting:    make([]domain.StaffRef, 0),
	}

	for _, staff := range staffs {
		if staff.Department != department {
			continue
		}

		slot := rand.Intn(len(gr.Shifts) + 1)
		if slot == len(gr.Shifts) {
			gr.Waiting = append(gr.Waiting, domain.StaffRef(staff.ID))
			continue
		}
		gr.Shifts[slot].Assignments = append(gr.Shifts[slot].Assignments, domain.ShiftAssignment{
			StaffID: domain.StaffRef(staff.ID),
		})
	}

	return gr
}
