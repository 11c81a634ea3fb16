package masstransit

import (
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/pborman/uuid"
)

var origin int64

func init() {
	start, err := time.ParseInLocation("2006-01-02 15:04:05", "2022-03-01 00:00:00", time.Local)
	if err != nil {
		panic(err)
	}
	origin = start.UnixNano() / int64(time.Millisecond)
}

// NewCorrelationID 生成关联 id：毫秒时间戳前缀 + uuid 后缀。
// 时间戳前缀让 id 大致有序，uuid 后缀保证存活的请求之间不会碰撞
func NewCorrelationID() string {
	now := time.Now().UnixNano()/int64(time.Millisecond) - origin
	var prefix [8]byte
	binary.BigEndian.PutUint64(prefix[:], uint64(now))
	suffix := uuid.NewRandom().Array()

	var id [27]byte
	hex.Encode(id[:], prefix[3:])
	id[10] = '-'
	hex.Encode(id[11:], suffix[8:])
	return string(id[:])
}
