package main

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"elemerge/internal/board"
	"elemerge/internal/catalog"
	"elemerge/internal/merge"
)

type model struct {
	width          int
	height         int
	mode           Mode
	config         *Config
	logger         *zap.Logger
	catalog        *catalog.Catalog
	surface        *board.Surface
	canvas         *Canvas
	resolver       merge.Resolver
	filter         textinput.Model
	selected       int
	sidebarScroll  int
	drag           *dragState
	helpScroll     int
	helpRenderer   *glamour.TermRenderer
	errorMessage   string
	successMessage string
}

// dragState is the gesture in progress and the cell the pointer is on.
type dragState struct {
	gesture board.Gesture
	col     int
	row     int
}

type point struct {
	X, Y int
}

// mergeResolvedMsg carries the resolver's answer back into the update loop.
type mergeResolvedMsg struct {
	pending board.Pending
	result  merge.Result
	err     error
}
