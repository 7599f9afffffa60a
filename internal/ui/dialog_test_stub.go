//go:build test

package ui

// Native dialogs need a desktop session; test builds never open one.
func saveDialog() (string, error) { return "", errExportCancelled }
