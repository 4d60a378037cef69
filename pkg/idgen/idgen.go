package idgen

import (
	"crypto/rand"
	"strconv"
	"time"
)

const (
	prefix      = "INC-"
	suffixLen   = 9
	suffixChars = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// Generate возвращает идентификатор инцидента вида INC-<unix-ms>-<9 символов base36>.
// Идентификаторы сортируются по времени создания за счёт миллисекундной метки.
func Generate() string {
	buf := make([]byte, suffixLen)
	// rand.Read из crypto/rand не возвращает ошибку начиная с Go 1.24
	rand.Read(buf)
	for i, b := range buf {
		buf[i] = suffixChars[int(b)%len(suffixChars)]
	}
	return prefix + strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + string(buf)
}
