package tui

type state int

const (
	loadingState state = iota
	errorState
	playlistsState
	itemsState
	playState
	postWatchState
)
