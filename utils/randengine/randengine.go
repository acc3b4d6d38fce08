// 随机数引擎，包装了golang.org/x/exp/rand，为车辆执行噪声提供可复现的随机序列
package randengine

import (
	"flag"
	"sync"

	"golang.org/x/exp/rand"
)

var (
	seedOffset = flag.Uint64("rand.seed_offset", 0, "seed offset") // 种子偏移量，用于调整随机数生成
)

// Engine 随机数引擎
// 说明：同一种子（含偏移量）产生相同的噪声序列，便于复现仿真结果
type Engine struct {
	*rand.Rand            // 底层随机数生成器
	mtx        sync.Mutex // 互斥锁，用于线程安全操作
}

// New 创建随机数引擎
// 参数：seed-随机数种子，实际种子为seed+rand.seed_offset
func New(seed uint64) *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(seed + *seedOffset))}
}

// Gaussian 均值为0、标准差为std的正态分布随机数（非线程安全）
// std<=0时返回0且不消耗随机序列
func (e *Engine) Gaussian(std float64) float64 {
	if std <= 0 {
		return 0
	}
	return e.NormFloat64() * std
}

// GaussianSafe 线程安全版本的Gaussian
func (e *Engine) GaussianSafe(std float64) float64 {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.Gaussian(std)
}

// PTrue 以指定概率返回true（非线程安全）
func (e *Engine) PTrue(p float64) bool {
	return e.Float64() < p
}
