package pipeline

import (
	"context"
	"sync"

	"github.com/tauraamui/medianstream/pkg/log"
)

type Process interface {
	Setup() Process
	Start()
	Stop()
	Wait()
	Done() <-chan interface{}
	Err() error
}

type Settings struct {
	// Parent, when set, cancels the process along with it.
	Parent             context.Context
	WaitForShutdownMsg string
	Process            func(context.Context) error
	// OnStop releases anything the process may be blocked on.
	OnStop func()
}

func New(settings Settings) Process {
	parent := settings.Parent
	if parent == nil {
		parent = context.Background()
	}
	return &process{
		parent:             parent,
		waitForShutdownMsg: settings.WaitForShutdownMsg,
		process:            settings.Process,
		onStop:             settings.OnStop,
		stopping:           make(chan interface{}),
	}
}

type process struct {
	parent             context.Context
	process            func(context.Context) error
	onStop             func()
	waitForShutdownMsg string
	canceller          context.CancelFunc
	stopping           chan interface{}
	stopOnce           sync.Once
	mu                 sync.Mutex
	err                error
}

func (p *process) logShutdown() {
	if len(p.waitForShutdownMsg) > 0 {
		log.Info(p.waitForShutdownMsg)
	}
}

func (p *process) Setup() Process { return p }

func (p *process) Start() {
	ctx, canceller := context.WithCancel(p.parent)
	p.canceller = canceller
	go func() {
		defer close(p.stopping)
		err := p.process(ctx)
		// failures caused by our own teardown are not failures
		if ctx.Err() != nil {
			return
		}
		p.mu.Lock()
		p.err = err
		p.mu.Unlock()
	}()
}

func (p *process) Stop() {
	p.stopOnce.Do(func() {
		p.logShutdown()
		if p.canceller != nil {
			p.canceller()
		}
		if p.onStop != nil {
			p.onStop()
		}
	})
}

func (p *process) Wait() {
	<-p.stopping
}

func (p *process) Done() <-chan interface{} { return p.stopping }

func (p *process) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}
