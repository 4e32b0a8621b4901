package domain

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// 固定的三个默认班次
const (
	ShiftMorning   = "morning"
	ShiftAfternoon = "afternoon"
	ShiftNight     = "night"
)

// StaffRef 是对员工的引用，后端返回的数据中既可能是纯字符串 ID，
// 也可能是展开后的对象，反序列化时统一归一化为字符串 ID，
// 这样上层查找时只需要比较字符串
type StaffRef string

func (s *StaffRef) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case string:
		*s = StaffRef(v)
	case float64:
		*s = StaffRef(fmt.Sprintf("%.0f", v))
	case map[string]any:
		for _, key := range []string{"userId", "id", "_id"} {
			if id, ok := v[key].(string); ok {
				*s = StaffRef(id)
				return nil
			}
		}
		return fmt.Errorf("员工引用对象中不存在 ID 字段")
	case nil:
		*s = ""
	default:
		return fmt.Errorf("无法解析的员工引用: %s", string(data))
	}

	return nil
}

func (s StaffRef) String() string {
	return string(s)
}

type ShiftAssignment struct {
	StaffID StaffRef `json:"userId"`
	Note    string   `json:"note,omitempty"`
}

type ShiftDefinition struct {
	Label       string            `json:"label"`
	Time        string            `json:"time"`
	Assignments []ShiftAssignment `json:"users"`
}

// Key 是班次去重时所用的复合键，标签相同但时间段不同的班次视为不同班次
func (sd *ShiftDefinition) Key() string {
	return sd.Label + "\x00" + sd.Time
}

// GroupRoster 是一个部门在某个月份的排班记录，
// 包含有序的班次列表以及等待池
type GroupRoster struct {
	ID         int64             `json:"id"`
	Department string            `json:"department"`
	Month      int               `json:"month"`
	Year       int               `json:"year"`
	Shifts     []ShiftDefinition `json:"shifts"`
	Waiting    []StaffRef        `json:"waiting"`
	CreatedAt  time.Time         `json:"createdAt"`
	Version    int32             `json:"-"`
}

// DefaultShifts 返回新建部门排班记录时的三个默认班次
func DefaultShifts() []ShiftDefinition {
	return []ShiftDefinition{
		{Label: ShiftMorning, Time: "08:00-12:00", Assignments: []ShiftAssignment{}},
		{Label: ShiftAfternoon, Time: "13:00-17:00", Assignments: []ShiftAssignment{}},
		{Label: ShiftNight, Time: "18:00-22:00", Assignments: []ShiftAssignment{}},
	}
}

// Clone 返回排班记录的深拷贝，不与原记录共享任何切片。
// RemoveStaff 会原地过滤分配列表，浅拷贝的记录会被后续修改污染
func (gr *GroupRoster) Clone() GroupRoster {
	cloned := *gr
	cloned.Shifts = make([]ShiftDefinition, len(gr.Shifts))
	for i, shift := range gr.Shifts {
		shift.Assignments = slices.Clone(shift.Assignments)
		cloned.Shifts[i] = shift
	}
	cloned.Waiting = slices.Clone(gr.Waiting)
	return cloned
}

// RemoveStaff 将员工从所有班次和等待池中移除，返回是否有改动
func (gr *GroupRoster) RemoveStaff(staffID string) bool {
	removed := false

	for i := range gr.Shifts {
		kept := gr.Shifts[i].Assignments[:0]
		for _, a := range gr.Shifts[i].Assignments {
			if a.StaffID.String() == staffID {
				removed = true
				continue
			}
			kept = append(kept, a)
		}
		gr.Shifts[i].Assignments = kept
	}

	waiting := gr.Waiting[:0]
	for _, w := range gr.Waiting {
		if w.String() == staffID {
			removed = true
			continue
		}
		waiting = append(waiting, w)
	}
	gr.Waiting = waiting

	return removed
}

// AssignStaff 将员工分配到指定班次，
// 分配前先将其从其他班次和等待池中移除，保证一个员工同月最多出现在一个班次中
func (gr *GroupRoster) AssignStaff(staffID string, shiftKey string, note string) error {
	gr.RemoveStaff(staffID)

	for i := range gr.Shifts {
		if gr.Shifts[i].Key() == shiftKey {
			gr.Shifts[i].Assignments = append(gr.Shifts[i].Assignments, ShiftAssignment{
				StaffID: StaffRef(staffID),
				Note:    note,
			})
			return nil
		}
	}

	return fmt.Errorf("班次不存在")
}

// MoveToWaiting 将员工从所有班次中移除并放入等待池，等待池中不会出现重复项
func (gr *GroupRoster) MoveToWaiting(staffID string) {
	gr.RemoveStaff(staffID)
	gr.Waiting = append(gr.Waiting, StaffRef(staffID))
}
