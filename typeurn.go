package masstransit

import (
	"reflect"
	"strings"
)

const urnPrefix = "urn:message:"

const acceptDelimiter = ";"

// MessageURN 根据 go 类型生成消息类型标识
//	例如 urn:message:github.com/xx/orders:OrderCanceled
func MessageURN(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return urnPrefix + t.Name()
	}
	return urnPrefix + t.PkgPath() + ":" + t.Name()
}

func URNOf[T any]() string {
	return MessageURN(reflect.TypeOf((*T)(nil)))
}

func URNOfValue(v any) string {
	return MessageURN(reflect.TypeOf(v))
}

// MessageType 在 Send 时从类型参数捕获，分发响应时只比较 urn，
// 不做运行时反射匹配
type MessageType struct {
	URN string
	New func() any
}

func TypeOf[T any]() MessageType {
	return MessageType{
		URN: URNOf[T](),
		New: func() any { return new(T) },
	}
}

func EncodeAcceptTypes(urns []string) string {
	return strings.Join(urns, acceptDelimiter)
}

func DecodeAcceptTypes(header string) []string {
	if header == "" {
		return nil
	}
	parts := strings.Split(header, acceptDelimiter)
	urns := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			urns = append(urns, p)
		}
	}
	return urns
}

// IsAccepted 供响应方判断某个响应类型是否被请求方接收。
// 头部缺失时对任何类型都返回 true（对旧版本请求方的兼容默认值）
func IsAccepted(header string, candidateURN string) bool {
	if header == "" {
		return true
	}
	for _, urn := range DecodeAcceptTypes(header) {
		if urn == candidateURN {
			return true
		}
	}
	return false
}
