package goroutine

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/campus-gateway/internal/logger"
)

// recoverPanic логирует panic со стеком и не даёт ей уронить процесс.
func recoverPanic(name string) {
	if r := recover(); r != nil {
		logger.Component("goroutine").WithFields(logrus.Fields{
			"task":  name,
			"panic": r,
			"stack": string(debug.Stack()),
		}).Error("goroutine: panic в горутине")
	}
}

// SafeGo запускает горутину с обработкой panic.
func SafeGo(name string, fn func()) {
	go func() {
		defer recoverPanic(name)
		fn()
	}()
}

// SafeGoWithContext запускает горутину с контекстом и обработкой panic.
func SafeGoWithContext(ctx context.Context, name string, fn func(context.Context)) {
	go func() {
		defer recoverPanic(name)
		fn(ctx)
	}()
}

// Group - набор горутин, которых можно дождаться при остановке.
type Group struct {
	wg sync.WaitGroup
}

// Go запускает fn с обработкой panic и учётом в группе.
func (g *Group) Go(name string, fn func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer recoverPanic(name)
		fn()
	}()
}

func (g *Group) Wait() {
	g.wg.Wait()
}
