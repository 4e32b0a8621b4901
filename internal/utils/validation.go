package utils

import (
	"fmt"
	"time"
)

// DaysIn 返回某个月份的天数
func DaysIn(month, year int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func ValidateMonthYear(month, year int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("月份必须在 1 到 12 之间")
	}
	if year < 2000 || year > 2100 {
		return fmt.Errorf("年份无效")
	}
	return nil
}

func ValidateDay(day, month, year int) error {
	if err := ValidateMonthYear(month, year); err != nil {
		return err
	}
	if day < 1 || day > DaysIn(month, year) {
		return fmt.Errorf("日期必须在 1 到 %d 之间", DaysIn(month, year))
	}
	return nil
}
