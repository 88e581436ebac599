// internal/service/order/port/lock.go
package port

import "context"

// Locker 是分布式互斥锁的出站端口。Acquire 成功后返回释放函数，
// 调用方必须 defer 释放。优惠码的"校验+记账"窗口靠它串行化，
// 防止两个并发提交用同一个码都通过校验。
type Locker interface {
	Acquire(ctx context.Context, resource string) (release func(), err error)
}
