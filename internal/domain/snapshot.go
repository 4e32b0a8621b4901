package domain

import "time"

// RosterBundle 是一个月份的完整排班数据包
type RosterBundle struct {
	Month    int           `json:"month"`
	Year     int           `json:"year"`
	Rosters  []GroupRoster `json:"rosters"`
	Statuses StatusMap     `json:"statuses"`
	Notes    NoteMap       `json:"notes"`
}

// RosterSnapshot 是某个时间点上一个月份排班数据的命名副本，
// 创建后只能通过显式的保存操作修改，不会自动同步
type RosterSnapshot struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Bundle    RosterBundle `json:"bundle"`
	CreatedAt time.Time    `json:"createdAt"`
	Version   int32        `json:"-"`
}

// Tab 是引用某个副本的页签记录，仅用于导航，删除副本时级联删除
type Tab struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	SnapshotID string    `json:"snapshotID"`
	CreatedAt  time.Time `json:"createdAt"`
	Version    int32     `json:"-"`
}
