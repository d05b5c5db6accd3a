package server

import "github.com/tauraamui/medianstream/pkg/pipeline"

func (s *Server) SetupProcesses() {
	s.duplex = pipeline.NewDuplexProcess(pipeline.Options{
		Source: s.source,
		Sink:   s.sink,
		Host:   s.host,
		Device: s.device,
		Policy: s.policy(),
		Stats:  s.stats,
	}).Setup()
}

func (s *Server) RunProcesses() {
	if s.duplex != nil {
		s.duplex.Start()
	}
}

// Halted is closed once the pipeline has stopped, for whatever reason.
func (s *Server) Halted() <-chan interface{} {
	if s.duplex == nil {
		return nil
	}
	return s.duplex.Done()
}

// Err reports the failure that halted the pipeline, if any.
func (s *Server) Err() error {
	if s.duplex == nil {
		return nil
	}
	return s.duplex.Err()
}

func (s *Server) shutdownProcesses() {
	if s.duplex == nil {
		return
	}
	s.duplex.Stop()
	s.duplex.Wait()
}
