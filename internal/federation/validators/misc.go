package validators

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// 本套件所有驗證器都直接吃解碼後的 JSON 值（interface{}）。
// 欄位缺漏或型別錯誤一律回傳 false，絕不 panic：輸入來自未信任的遠端。

func toString(v interface{}) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// toInteger JSON 數字解碼為 float64，測試常直接塞 int，兩者都要接受
func toInteger(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}

func has(m map[string]interface{}, key string) bool {
	_, ok := m[key]
	return ok
}

func isStringBetween(v interface{}, min, max int) bool {
	s, ok := toString(v)
	if !ok {
		return false
	}
	return len(s) >= min && len(s) <= max
}

func isIntegerBetween(v interface{}, min, max int64) bool {
	n, ok := toInteger(v)
	if !ok {
		return false
	}
	return n >= min && n <= max
}

// IsUUIDValid check the value is a well-formed UUID string
func IsUUIDValid(v interface{}) bool {
	s, ok := toString(v)
	if !ok {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// IsDateValid check the value is an RFC3339 date string
func IsDateValid(v interface{}) bool {
	s, ok := toString(v)
	if !ok {
		return false
	}
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}

// IsDatePairValid both dates well formed and updatedAt >= createdAt
func IsDatePairValid(createdAt, updatedAt interface{}) bool {
	if !IsDateValid(createdAt) || !IsDateValid(updatedAt) {
		return false
	}
	created, _ := time.Parse(time.RFC3339, createdAt.(string))
	updated, _ := time.Parse(time.RFC3339, updatedAt.(string))
	return !updated.Before(created)
}

// IsBooleanValid check the value is a real JSON boolean
func IsBooleanValid(v interface{}) bool {
	_, ok := v.(bool)
	return ok
}

// IsArrayValid check the value is a JSON array
func IsArrayValid(v interface{}) bool {
	_, ok := v.([]interface{})
	return ok
}
