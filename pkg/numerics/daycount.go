// Package numerics 提供定价与风控引擎共用的数值工具：日计数、求根算法、波动率与统计估计
package numerics

import (
	"time"
)

// DayCount 日计数惯例
type DayCount string

const (
	DayCountACT365    DayCount = "ACT/365" // 实际天数 / 365
	DayCountACT360    DayCount = "ACT/360" // 实际天数 / 360
	DayCountThirty360 DayCount = "30/360"  // 每月按 30 天、每年按 360 天
)

// YearFraction 按指定日计数惯例计算两个日期之间的年化区间
// end 早于 start 时返回负值，调用方负责校验日期顺序
func YearFraction(start, end time.Time, dc DayCount) float64 {
	switch dc {
	case DayCountACT360:
		return end.Sub(start).Hours() / 24.0 / 360.0
	case DayCountThirty360:
		return thirty360(start, end)
	default:
		return end.Sub(start).Hours() / 24.0 / 365.0
	}
}

// thirty360 按 30/360 (Bond Basis) 规则计算年化区间
func thirty360(start, end time.Time) float64 {
	d1 := start.Day()
	d2 := end.Day()
	if d1 == 31 {
		d1 = 30
	}
	if d2 == 31 && d1 == 30 {
		d2 = 30
	}

	days := 360*(end.Year()-start.Year()) + 30*(int(end.Month())-int(start.Month())) + (d2 - d1)
	return float64(days) / 360.0
}

// YearsBetween 以 ACT/365 计算年化区间，供默认场景使用
func YearsBetween(start, end time.Time) float64 {
	return YearFraction(start, end, DayCountACT365)
}

// AddYears 在指定日期上增加年化区间（近似按 365 天折算）
func AddYears(t time.Time, years float64) time.Time {
	return t.Add(time.Duration(years * 365.0 * 24.0 * float64(time.Hour)))
}
