//go:build !test

package ui

import (
	"errors"

	"github.com/sqweek/dialog"
)

func saveDialog() (string, error) {
	path, err := dialog.File().Filter("WAV files", "wav").Title("Export tones").Save()
	if errors.Is(err, dialog.ErrCancelled) {
		return "", errExportCancelled
	}
	return path, err
}
