// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "fmt"

// Status is the rendering hint for the connection indicator.
type Status int

const (
	StatusLoading Status = iota
	StatusSuccess
	StatusError
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "loading"
	}
}

// Indicator texts.
const (
	TextConnecting   = "Connecting..."
	TextOffline      = "System offline"
	TextUnreachable  = "Cannot connect to server"
	backendRunning   = "running"
	connectedPattern = "Connected - %s | %s"
)

// StatusView is what the indicator renders: a status and its label.
// Index and Model are only set while connected.
type StatusView struct {
	Status Status
	Text   string
	Index  string
	Model  string
}

// LoadingStatus is shown until the first poll completes.
func LoadingStatus() StatusView {
	return StatusView{Status: StatusLoading, Text: TextConnecting}
}

// ReportedStatus maps a status report to a view. Any state other than
// "running" renders offline regardless of the other fields.
func ReportedStatus(state, index, modelName string) StatusView {
	if state != backendRunning {
		return StatusView{Status: StatusError, Text: TextOffline}
	}
	return StatusView{
		Status: StatusSuccess,
		Text:   fmt.Sprintf(connectedPattern, index, modelName),
		Index:  index,
		Model:  modelName,
	}
}

// UnreachableStatus is shown when the status request itself failed.
func UnreachableStatus() StatusView {
	return StatusView{Status: StatusError, Text: TextUnreachable}
}

// Online reports whether the backend is connected.
func (v StatusView) Online() bool {
	return v.Status == StatusSuccess
}
