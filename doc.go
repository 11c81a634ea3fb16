// Package masstransit 消息总线客户端的请求/响应关联层。
//
// 根包提供消息封装、类型 urn 与 accept 头部、channel 能力接口及其
// 串行化/共享装饰器和 amqp 绑定；client 子包在此之上实现请求发送、
// 在途表与响应路由。
package masstransit
