package client

import (
	masstransit "github.com/rafaela2/MassTransit"
)

// Response 响应结果，N 个声明类型中实际到达的那一个。
// 有且只有一个变体被填充，判别依据是 Send 时从类型参数捕获的 urn，
// 不做运行时的消息体形状探测
type Response struct {
	urn     string
	header  masstransit.Header
	payload any
}

func (r *Response) MessageURN() string {
	return r.urn
}

func (r *Response) Header() masstransit.Header {
	return r.header
}

// As 检查到达的是否为类型 T 的响应。
// 只有实际到达的变体返回 (payload, true)，其余类型一律 (nil, false)
func As[T any](r *Response) (*T, bool) {
	if r == nil || r.urn != masstransit.URNOf[T]() {
		return nil, false
	}
	payload, ok := r.payload.(*T)
	return payload, ok
}

// Destructure2 成对解构，只覆盖前两个声明类型的二元场景；
// 三个以上声明类型请逐个使用 As 检查
func Destructure2[A, B any](r *Response) (*A, *B) {
	a, _ := As[A](r)
	b, _ := As[B](r)
	return a, b
}
