package ui

import (
	"github.com/osa030/spotlist/internal/app/builder"
	"github.com/osa030/spotlist/internal/app/suggest"
)

// buildDoneMsg carries the outcome of a playlist build.
type buildDoneMsg struct {
	result *builder.Result
	err    error
}

// suggestionsMsg carries similar artists for seed.
type suggestionsMsg struct {
	seed        string
	suggestions []suggest.Suggestion
	err         error
}
