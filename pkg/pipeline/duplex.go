package pipeline

import (
	"context"
	"sync"

	"github.com/tauraamui/medianstream/pkg/filter"
	"github.com/tauraamui/medianstream/pkg/log"
	"github.com/tauraamui/medianstream/pkg/stream"
	"github.com/tauraamui/medianstream/pkg/video/videobackend"
)

type Options struct {
	Source videobackend.Source
	Sink   videobackend.Sink
	// Host is the application side of the link.
	Host *stream.Channels
	// Device, when set, is driven by an in-process filter. Leave nil when
	// a real device sits on the far side of Host.
	Device *stream.Channels
	Policy filter.RingPolicy
	Stats  *Stats
}

type duplexProcess struct {
	opts     Options
	producer Process
	consumer Process
	filter   Process
	mu       sync.Mutex
	started  bool
	done     chan interface{}
	doneOnce sync.Once
	ctx      context.Context
	stop     context.CancelFunc
	err      error
}

// NewDuplexProcess runs the producer and consumer concurrently over the
// host channels, plus the filter when running in loopback. The first
// fatal failure of any part halts them all.
func NewDuplexProcess(opts Options) Process {
	if opts.Stats == nil {
		opts.Stats = NewStats("")
	}
	return &duplexProcess{opts: opts, done: make(chan interface{})}
}

func (d *duplexProcess) Setup() Process {
	// parts run under one parent so a halt cancels all of them before
	// any channel is closed
	d.ctx, d.stop = context.WithCancel(context.Background())

	closeHost := func() {
		if err := d.opts.Host.Close(); err != nil {
			log.Debug("Closing host channels: %v", err)
		}
	}

	d.producer = New(Settings{
		Parent:             d.ctx,
		WaitForShutdownMsg: "Stopping frame producer",
		Process:            ProducerProcess(d.opts.Source, d.opts.Host.Tx, d.opts.Stats),
		OnStop:             closeHost,
	})
	d.consumer = New(Settings{
		Parent:             d.ctx,
		WaitForShutdownMsg: "Stopping frame consumer",
		Process:            ConsumerProcess(d.opts.Host.Rx, d.opts.Sink, d.opts.Stats),
		OnStop:             closeHost,
	})

	if d.opts.Device != nil {
		device := filter.NewDevice(
			filter.NewEngine(d.opts.Policy), d.opts.Device.Rx, d.opts.Device.Tx,
		)
		d.filter = New(Settings{
			Parent:             d.ctx,
			WaitForShutdownMsg: "Stopping loopback filter",
			Process:            device.Run,
			OnStop: func() {
				if err := d.opts.Device.Close(); err != nil {
					log.Debug("Closing device channels: %v", err)
				}
			},
		})
	}
	return d
}

func (d *duplexProcess) parts() []Process {
	parts := []Process{d.consumer, d.producer}
	if d.filter != nil {
		parts = append([]Process{d.filter}, parts...)
	}
	return parts
}

func (d *duplexProcess) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return
	}
	d.started = true

	for _, p := range d.parts() {
		p.Start()
	}
	go d.watch(d.ctx)
}

func (d *duplexProcess) watch(ctx context.Context) {
	defer d.doneOnce.Do(func() { close(d.done) })

	var filterDone <-chan interface{}
	if d.filter != nil {
		filterDone = d.filter.Done()
	}

	var failed Process
	select {
	case <-ctx.Done():
	case <-d.producer.Done():
		failed = d.producer
	case <-d.consumer.Done():
		failed = d.consumer
	case <-filterDone:
		failed = d.filter
	}

	if failed != nil {
		d.err = failed.Err()
		if d.err != nil {
			log.Error("Pipeline halted: %v", d.err)
		}
	}

	d.stop()
	for _, p := range d.parts() {
		p.Stop()
	}
	for _, p := range d.parts() {
		p.Wait()
	}
}

func (d *duplexProcess) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.started {
		// never started, nothing to wait for
		d.started = true
		d.doneOnce.Do(func() { close(d.done) })
		return
	}
	d.stop()
}

func (d *duplexProcess) Wait() {
	<-d.done
}

func (d *duplexProcess) Done() <-chan interface{} { return d.done }

// Err is only meaningful once Done is closed.
func (d *duplexProcess) Err() error {
	select {
	case <-d.done:
		return d.err
	default:
		return nil
	}
}
