package utils

import (
	"strconv"
	"time"
)

// TimeID 以秒级时间戳生成 ID，prefix 可为空
// 同一秒内重复时向后递增，直到 taken 返回 false
func TimeID(prefix string, now time.Time, taken func(id string) bool) string {
	ts := now.Unix()
	for {
		id := prefix + strconv.FormatInt(ts, 10)
		if taken == nil || !taken(id) {
			return id
		}
		ts++
	}
}
