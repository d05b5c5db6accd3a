package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/tacusci/logging/v2"
	"github.com/takama/daemon"
	"github.com/tauraamui/medianstream/pkg/config"
	"github.com/tauraamui/medianstream/pkg/configdef"
	db "github.com/tauraamui/medianstream/pkg/database"
	"github.com/tauraamui/medianstream/pkg/log"
	"github.com/tauraamui/medianstream/pkg/server"
	"gocv.io/x/gocv"
)

const (
	name        = "median_stream"
	description = "Median stream service daemon which streams frames through a 3x3 median filter"
)

type Service struct {
	daemon.Daemon
}

// Setup writes the default config and creates the frame journal.
func (service *Service) Setup() (string, error) {
	log.Info("Setting up medianstream service...")

	err := config.DefaultCreator().Create()
	if err != nil {
		if !errors.Is(err, configdef.ErrConfigAlreadyExists) {
			return "", err
		}
		log.Error(err.Error())
	}

	err = db.Setup()
	if err != nil {
		if !errors.Is(err, db.ErrDBAlreadyExists) {
			return "", err
		}
		log.Error(err.Error())
	}

	return "Setup successful...", nil
}

func (service *Service) RemoveSetup() (string, error) {
	log.Info("Removing setup for medianstream service...")
	if err := config.DefaultDestroyer().Destroy(); err != nil {
		log.Error("unable to delete config file: %s", err.Error())
	}

	if err := db.Destroy(); err != nil {
		log.Error("unable to delete database file: %s", err.Error())
	}

	return "Removing setup successful...", nil
}

func (service *Service) Manage() (string, error) {
	usage := "Usage: medianstream setup | remove-setup | install | remove | start | stop | status"

	if len(os.Args) > 1 {
		command := os.Args[1]
		switch command {
		case "setup":
			return service.Setup()
		case "remove-setup":
			return service.RemoveSetup()
		case "install":
			return service.Install()
		case "remove":
			return service.Remove()
		case "start":
			return service.Start()
		case "stop":
			return service.Stop()
		case "status":
			return service.Status()
		default:
			return usage, nil
		}
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	log.Info("Starting median stream...")

	svr, err := server.NewServer(config.DefaultResolver())
	if err != nil {
		return "", err
	}

	ctx, cancelStartup := context.WithCancel(context.Background())
	defer cancelStartup()
	started := make(chan error, 1)
	go func() { started <- startupServer(ctx, svr) }()

	var haltErr error
	select {
	case killSignal := <-interrupt:
		fmt.Print("\r")
		log.Error("Received signal: %s", killSignal)
	case haltErr = <-started:
		if haltErr == nil {
			select {
			case killSignal := <-interrupt:
				fmt.Print("\r")
				log.Error("Received signal: %s", killSignal)
			case <-svr.Halted():
				haltErr = svr.Err()
			}
		}
	}

	cancelStartup()
	log.Info("Shutting down server...")
	<-svr.Shutdown()

	if gocv.MatProfile.Count() > 0 {
		var b bytes.Buffer
		gocv.MatProfile.WriteTo(&b, 1) //nolint
		fmt.Print(b.String())
	}

	if haltErr != nil {
		return "", haltErr
	}
	return "Shutdown successful... BYE! 👋", nil
}

func startupServer(ctx context.Context, svr *server.Server) error {
	if err := svr.Connect(ctx); err != nil {
		return err
	}
	svr.SetupProcesses()
	svr.RunProcesses()
	return svr.StartStatus()
}

func init() {
	log.Configure(os.Getenv(log.LevelEnvKey))
}

func main() {
	daemonType := daemon.SystemDaemon
	if runtime.GOOS == "darwin" {
		daemonType = daemon.UserAgent
	}

	srv, err := daemon.New(name, description, daemonType)
	if err != nil {
		logging.Error(err.Error()) //nolint
		os.Exit(1)
	}

	service := &Service{srv}
	status, err := service.Manage()
	if err != nil {
		logging.Error(err.Error()) //nolint
		os.Exit(1)
	}

	logging.Info(status) //nolint
}
