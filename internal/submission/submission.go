// Package submission 定義表單紀錄以及 gateway 與 listener 之間的 datagram 編碼。
package submission

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

var (
	ErrEmpty         = errors.New("submission: empty payload")
	ErrEmptyPair     = errors.New("submission: empty pair")
	ErrMissingEquals = errors.New("submission: pair without '='")
	ErrExtraEquals   = errors.New("submission: pair with more than one '='")
)

// Record 一筆表單資料；重複欄位以最後一個為準
type Record map[string]string

// Entry 已寫入 log document 的紀錄
type Entry struct {
	Key    string `json:"key" bson:"key"`
	Record Record `json:"record" bson:"record"`
}

// Decode 解析 application/x-www-form-urlencoded 內容。
// 先以 '&' 與 '=' 切開再逐一 percent-decode，'+' 視為空白；不合法的 '%' 保留原字元。
func Decode(payload []byte) (Record, error) {
	if len(payload) == 0 {
		return nil, ErrEmpty
	}
	record := Record{}
	for i, pair := range strings.Split(string(payload), "&") {
		if pair == "" {
			return nil, fmt.Errorf("pair %d: %w", i, ErrEmptyPair)
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("pair %d: %w", i, ErrMissingEquals)
		}
		if strings.Contains(value, "=") {
			return nil, fmt.Errorf("pair %d: %w", i, ErrExtraEquals)
		}
		record[unescape(key)] = unescape(value)
	}
	return record, nil
}

// unescape '+' 轉空白、%XX 轉位元組，其餘（含殘缺的 %）照抄
func unescape(s string) string {
	if !strings.ContainsAny(s, "%+") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '+':
			b.WriteByte(' ')
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

// Encode 以固定的 key 順序輸出，與 Decode 互為反函數
func Encode(record Record) []byte {
	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(record[k]))
	}
	return []byte(b.String())
}

// Mirror 在紀錄寫入 log document 之後收到副本
type Mirror interface {
	Name() string
	Mirror(ctx context.Context, entry Entry) error
}

type Mirrors []Mirror
