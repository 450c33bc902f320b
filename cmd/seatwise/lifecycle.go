package main

import (
	"errors"

	"github.com/seatwise/extension/internal/dispatcher"
	"github.com/seatwise/extension/internal/util"
)

// errJournalDisabled is returned by :STATUS: when storage.type is none.
var errJournalDisabled = errors.New("journal disabled")

// Lifecycle commands sent by the host script.
const (
	CommandInitStorage = ":INIT:STORAGE:"
	CommandSession     = ":SESSION:"
	CommandStatus      = ":STATUS:"
	CommandShutdown    = ":SHUTDOWN:"
	CommandLog         = ":LOG:"
)

func registerLifecycleHandlers(d *dispatcher.Dispatcher) {
	// Storage may dial a remote server, so it is started off the host thread.
	// Records made before it is up stay queued in the journal.
	d.Register(CommandInitStorage, func(dispatcher.Event) (any, error) {
		if journalSvc == nil {
			return "none", nil
		}
		go startJournal()
		return storageType, nil
	}, dispatcher.Logged())

	d.Register(CommandSession, func(dispatcher.Event) (any, error) {
		return sessionCtx.ID().String(), nil
	})

	d.Register(CommandStatus, func(dispatcher.Event) (any, error) {
		if statusMonitor == nil {
			return nil, errJournalDisabled
		}
		return statusMonitor.GetStatus(), nil
	})

	// :LOG:|function|message|level writes a host script line into the extension log.
	d.Register(CommandLog, func(e dispatcher.Event) (any, error) {
		if len(e.Args) < 2 {
			return nil, errors.New("log requires function and message")
		}
		level := "info"
		if len(e.Args) > 2 {
			level = util.CleanArg(e.Args[2])
		}
		SlogManager.WriteLog(util.CleanArg(e.Args[0]), util.CleanArg(e.Args[1]), level)
		return nil, nil
	})

	d.Register(CommandShutdown, func(dispatcher.Event) (any, error) {
		return nil, shutdown()
	}, dispatcher.Logged())
}

func startJournal() {
	lifecycleMu.Lock()
	defer lifecycleMu.Unlock()

	if journalSvc == nil {
		return
	}
	if err := journalSvc.Start(); err != nil {
		Logger.Error("Failed to start journal", "storage", storageType, "error", err)
		return
	}
	if statusMonitor != nil {
		statusMonitor.Start()
	}
	Logger.Info("Journal storage ready", "storage", storageType)
}
