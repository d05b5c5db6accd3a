package server

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/tauraamui/medianstream/pkg/api"
	"github.com/tauraamui/medianstream/pkg/configdef"
	data "github.com/tauraamui/medianstream/pkg/database"
	"github.com/tauraamui/medianstream/pkg/database/dbconn"
	"github.com/tauraamui/medianstream/pkg/database/repos"
	"github.com/tauraamui/medianstream/pkg/filter"
	"github.com/tauraamui/medianstream/pkg/journal"
	"github.com/tauraamui/medianstream/pkg/log"
	"github.com/tauraamui/medianstream/pkg/pipeline"
	"github.com/tauraamui/medianstream/pkg/pixel"
	"github.com/tauraamui/medianstream/pkg/stream"
	"github.com/tauraamui/medianstream/pkg/video/videobackend"
	"github.com/tauraamui/xerror"
)

var (
	fs             = afero.NewOsFs()
	connectJournal = data.Connect
	resolveSource  = videobackend.ResolveSource
	resolveSink    = videobackend.ResolveSink
)

const (
	shutdownTimeout     = 5 * time.Second
	filteredWindowTitle = "Filtered"
)

type Server struct {
	config       configdef.Values
	sessionID    string
	mu           sync.Mutex
	shutdownDone chan interface{}
	host         *stream.Channels
	device       *stream.Channels
	source       videobackend.Source
	sink         videobackend.Sink
	db           dbconn.GormWrapper
	stats        *pipeline.Stats
	duplex       pipeline.Process
	status       *api.Server
}

func NewServer(cr configdef.Resolver) (*Server, error) {
	c, err := cr.Resolve()
	if err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()
	return &Server{
		config:       c,
		sessionID:    sessionID,
		stats:        pipeline.NewStats(sessionID),
		shutdownDone: make(chan interface{}),
	}, nil
}

func (s *Server) SessionID() string { return s.sessionID }

func (s *Server) policy() filter.RingPolicy {
	if s.config.ResetRingPerFrame {
		return filter.ResetRingPerFrame
	}
	return filter.PersistRing
}

// Connect opens both ends of the link, the frame source and the frame sink.
// Anything opened before a failure is released by Shutdown.
func (s *Server) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := pixel.CheckDimensions(pixel.Width, pixel.Height); err != nil {
		return err
	}

	if err := s.openChannels(); err != nil {
		return err
	}

	log.Info("Connecting to frame source: [%s]...", s.config.Source)
	src, err := resolveSource(ctx, s.config.Source, s.config.SourceTitle, s.config.SourceDevice)
	if err != nil {
		return xerror.Errorf("unable to connect to frame source: %w", err)
	}
	s.source = src
	log.Info("Connected successfully to frame source: [%s]", src.UUID())

	sink, err := resolveSink(videobackend.SinkSettings{
		Kind:          s.config.Sink,
		Title:         filteredWindowTitle,
		Location:      s.config.SnapshotLocation,
		SnapshotEvery: s.config.SnapshotEvery,
	})
	if err != nil {
		return xerror.Errorf("unable to open frame sink: %w", err)
	}
	s.sink = sink

	if s.config.Journal {
		db, err := connectJournal()
		if err != nil {
			return xerror.Errorf("unable to open frame journal: %w", err)
		}
		s.db = db
		s.sink = journal.Wrap(s.sessionID, s.sink, &repos.FrameRecordRepository{DB: db})
		log.Info("Journaling frames for session [%s]", s.sessionID)
	}

	return nil
}

func (s *Server) openChannels() error {
	if s.config.Mode == configdef.DeviceMode {
		host, err := stream.OpenDevices(fs, s.config.WriteDevice, s.config.ReadDevice)
		if err != nil {
			return err
		}
		s.host = host
		return nil
	}

	log.Info("Running with in-process loopback filter [%s]", s.policy())
	s.host, s.device = stream.Loopback()
	return nil
}

func (s *Server) StartStatus() error {
	if len(s.config.StatusAddress) == 0 {
		return nil
	}
	s.status = api.New(s.config.StatusAddress, s)
	return s.status.Start()
}

func (s *Server) Status() api.Status {
	status := api.Status{
		Mode:          s.config.Mode,
		RingPolicy:    s.policy().String(),
		StatsSnapshot: s.stats.Snapshot(),
	}
	if s.duplex != nil {
		select {
		case <-s.duplex.Done():
			status.Halted = true
		default:
		}
	}
	return status
}

func (s *Server) shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := s.status.Shutdown(ctx); err != nil {
			log.Error("Unable to shutdown status server: %v", err)
		}
		cancel()
	}

	s.shutdownProcesses()

	for _, ch := range []*stream.Channels{s.host, s.device} {
		if ch == nil {
			continue
		}
		if err := ch.Close(); err != nil {
			log.Debug("Closing channels: %v", err)
		}
	}

	if s.source != nil {
		log.Warn("Closing frame source: [%s]...", s.source.UUID())
		if err := s.source.Close(); err != nil {
			log.Error("Unable to close frame source: %v", err)
		}
	}

	if s.sink != nil {
		if err := s.sink.Close(); err != nil {
			log.Error("Unable to close frame sink: %v", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Error("Unable to close frame journal: %v", err)
		}
	}
	close(s.shutdownDone)
}

func (s *Server) Shutdown() chan interface{} {
	s.shutdown()
	return s.shutdownDone
}
