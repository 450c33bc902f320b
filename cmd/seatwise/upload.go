package main

import (
	"github.com/seatwise/extension/internal/api"
	"github.com/seatwise/extension/internal/config"
	"github.com/seatwise/extension/internal/storage"
	"github.com/seatwise/extension/pkg/core"
)

// uploadJournal sends the file exported by backend to api.serverUrl. It does
// nothing when no server is configured or the backend exported nothing.
func uploadJournal(backend storage.Backend, s core.Session) error {
	serverURL := config.GetString("api.serverUrl")
	if serverURL == "" {
		return nil
	}
	exporter, ok := backend.(storage.Exporter)
	if !ok || exporter.ExportedFilePath() == "" {
		return nil
	}

	client := api.New(serverURL, config.GetString("api.apiKey"))
	if err := client.Healthcheck(); err != nil {
		return err
	}

	path := exporter.ExportedFilePath()
	err := client.Upload(path, api.UploadMetadata{
		SessionID:        s.ID.String(),
		ExtensionVersion: s.ExtensionVersion,
		DurationSeconds:  s.EndTime.Sub(s.StartTime).Seconds(),
		Tag:              config.GetString("api.tag"),
	})
	if err != nil {
		return err
	}
	Logger.Info("Journal uploaded", "path", path, "server", serverURL)
	return nil
}
