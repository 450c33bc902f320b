package main

/*
#include <stdlib.h>
*/
import "C" // required for -buildmode=c-shared

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/seatwise/extension/internal/config"
	"github.com/seatwise/extension/internal/dispatcher"
	"github.com/seatwise/extension/internal/journal"
	"github.com/seatwise/extension/internal/logging"
	"github.com/seatwise/extension/internal/monitor"
	intOtel "github.com/seatwise/extension/internal/otel"
	"github.com/seatwise/extension/internal/script"
	"github.com/seatwise/extension/internal/session"
	"github.com/seatwise/extension/internal/storage"
	"github.com/seatwise/extension/pkg/hostbridge"
)

// module defs - BuildDate can be set at build time via ldflags
var (
	CurrentExtensionVersion string = "0.0.1"
	BuildDate               string = "unknown"

	ExtensionName string = "seatwise"
)

// file paths
var (
	// ModuleFolder is the folder containing this library file. Relative
	// paths in the config are resolved against it.
	ModuleFolder string

	LogFilePath string
	LogFile     *os.File
)

// global variables
var (
	// SlogManager handles all slog-based logging
	SlogManager *logging.SlogManager

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger

	// StorageLogger is the zerolog logger handed to database and influx managers
	StorageLogger zerolog.Logger = zerolog.Nop()

	// OTelProvider handles OpenTelemetry
	OTelProvider *intOtel.Provider

	sessionCtx      *session.Context
	eventDispatcher *dispatcher.Dispatcher
	entryScript     *script.Script

	// journalSvc is nil when storage.type is none
	journalSvc     *journal.Journal
	storageBackend storage.Backend
	statusMonitor  *monitor.Service
	storageType    string

	// lifecycleMu serializes journal start and shutdown
	lifecycleMu sync.Mutex
)

// init is run automatically when the module is loaded
func init() {
	ModuleFolder = hostbridge.ModuleDir()
	sessionCtx = session.NewContext(CurrentExtensionVersion, BuildDate)

	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(nil, "info", nil)
	Logger = SlogManager.Logger()

	configErr := config.Load(ModuleFolder)

	if err := setupLogging(); err != nil {
		Logger.Error("Failed to set up log file, logging to console", "error", err)
	}
	if configErr != nil {
		Logger.Warn("Failed to load config, using defaults!", "error", configErr)
	} else {
		Logger.Info("Loaded config", "dir", ModuleFolder)
	}

	if err := setupServices(); err != nil {
		Logger.Error("Failed to set up services", "error", err)
		return
	}

	Logger.Info("Extension ready",
		"version", CurrentExtensionVersion,
		"build", BuildDate,
		"session", sessionCtx.ID().String(),
	)
}

// resolvePath makes a config path absolute relative to the module folder.
func resolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(ModuleFolder, p)
}

func setupLogging() error {
	level := config.GetString("logLevel")
	logsDir := resolvePath(config.GetString("logsDir"))
	LogFilePath = logging.LogFilePath(logsDir, ExtensionName, sessionCtx.Get().StartTime)

	f, err := logging.OpenLogFile(LogFilePath)
	if err != nil {
		return err
	}
	LogFile = f
	StorageLogger = logging.NewZerolog(LogFile, level, "storage")

	otelCfg := config.GetOTelConfig()
	var otelWriter io.Writer
	if otelCfg.Enabled {
		otelFile, err := logging.OpenLogFile(strings.TrimSuffix(LogFilePath, ".log") + ".otel.jsonl")
		if err != nil {
			Logger.Warn("Failed to open OTel log file", "error", err)
		} else {
			otelWriter = otelFile
		}
	}
	OTelProvider, err = intOtel.New(otelCfg, otelWriter)
	if err != nil {
		Logger.Warn("Failed to set up OTel, continuing without it", "error", err)
		OTelProvider, _ = intOtel.New(config.OTelConfig{}, nil)
	}

	opts := []logging.SetupOption{logging.WithContext(sessionCtx.LogAttrs)}
	if config.GetBool("graylog.enabled") {
		gw, err := logging.NewGelfWriter(config.GetString("graylog.address"), ExtensionName)
		if err != nil {
			Logger.Warn("Failed to set up Graylog sink", "error", err)
		} else {
			opts = append(opts, logging.WithSink(gw))
		}
	}

	SlogManager.Setup(LogFile, level, OTelProvider.LoggerProvider(), opts...)
	Logger = SlogManager.Logger()
	return nil
}

func setupServices() error {
	storageCfg := config.GetStorageConfig()
	storageType = storageCfg.Type
	backend, err := newBackend(storageCfg, sessionCtx.ID().String(), StorageLogger)
	if err != nil {
		Logger.Error("Failed to create storage backend, journal disabled", "error", err)
	}

	var recorder script.Recorder
	if backend != nil {
		storageBackend = backend
		journalSvc = journal.New(backend, sessionCtx, storageCfg.FlushInterval, Logger.With("component", "journal"))
		recorder = journalSvc
		statusMonitor = monitor.NewService(monitor.Dependencies{
			Journal:    journalSvc,
			Session:    sessionCtx,
			Storage:    storageType,
			StatusPath: filepath.Join(ModuleFolder, "status.json"),
			Interval:   config.GetDuration("statusInterval"),
			Logger:     Logger.With("component", "monitor"),
		})
	}

	entryScript, err = script.New(script.Dependencies{
		Natives:  hostbridge.NewRemoteNatives(hostbridge.Call, Logger.With("component", "natives")),
		Recorder: recorder,
		Logger:   Logger,
	}, config.GetSettings())
	if err != nil {
		return err
	}

	eventDispatcher, err = dispatcher.New(logging.NewDispatcherLogger(Logger))
	if err != nil {
		return err
	}
	entryScript.Register(eventDispatcher)
	registerLifecycleHandlers(eventDispatcher)

	hostbridge.SetVersion(CurrentExtensionVersion)
	hostbridge.SetDispatcher(eventDispatcher)

	config.Watch(func(s config.Settings) {
		if err := entryScript.Apply(s); err != nil {
			Logger.Error("Failed to apply changed config, keeping previous settings", "error", err)
		}
	})
	return nil
}

// shutdown closes the journal and flushes log exporters.
func shutdown() error {
	lifecycleMu.Lock()
	defer lifecycleMu.Unlock()

	var err error
	if journalSvc != nil {
		if err = journalSvc.Close(); err != nil {
			Logger.Error("Failed to close journal", "error", err)
		}
	}
	if statusMonitor != nil {
		statusMonitor.Stop()
	}
	if err == nil && storageBackend != nil {
		if uerr := uploadJournal(storageBackend, sessionCtx.Get()); uerr != nil {
			Logger.Error("Failed to upload journal", "error", uerr)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := SlogManager.Flush(ctx); err != nil {
		Logger.Warn("Failed to flush logs", "error", err)
	}
	if OTelProvider != nil {
		if err := OTelProvider.Shutdown(ctx); err != nil {
			Logger.Warn("Failed to shut down OTel", "error", err)
		}
	}
	return err
}
