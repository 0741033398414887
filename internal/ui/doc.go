// Package ui implements the interactive playlist builder using bubbletea's Elm architecture.
//
// The screen has three views:
//  1. [EditView] : enter a playlist name, add artists with a track count, manage the list
//  2. [BuildingView] : spinner while the playlist is created and populated
//  3. [ResultView] : created playlist, track count and skipped artists, or the failure
//
// The selection list is only touched from Update. Builds and suggestion lookups run
// inside tea.Cmd functions and report back with messages.
package ui
