package main

type Mode int

const (
	ModeNormal Mode = iota
	ModeFilter
	ModeHelp
)

type FileOperation int

const (
	FileOpSavePNG FileOperation = iota
	FileOpSaveVisualTXT
)

const (
	headerRows = 1
	statusRows = 1

	// Sidebar rows, relative to the top of the screen.
	sidebarTitleRow  = 1
	sidebarFilterRow = 2
	sidebarListTop   = 4

	minSidebarWidth = 16
	tileHeight      = 3
	tilePadding     = 4 // border plus one space each side
)

type cellStyle int

const (
	styleNone cellStyle = iota
	styleTile
	styleGhost
)
