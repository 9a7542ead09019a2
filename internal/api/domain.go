package api

import (
	"github.com/JaimeStill/muse/internal/briefs"
	"github.com/JaimeStill/muse/internal/dimensions"
	"github.com/JaimeStill/muse/internal/intents"
	"github.com/JaimeStill/muse/internal/prompts"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Intents    intents.System
	Dimensions dimensions.System
	Briefs     briefs.System
	Prompts    prompts.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	promptsSystem := prompts.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	intentsSystem := intents.New(
		runtime.Database.Connection(),
		runtime.Agent,
		runtime.Logger,
		runtime.Pagination,
		runtime.Storage,
		promptsSystem,
		runtime.EngineTimeout,
	)

	dimensionsSystem := dimensions.New(
		runtime.Agent,
		runtime.Logger,
		promptsSystem,
		runtime.EngineTimeout,
	)

	briefsSystem := briefs.New(
		runtime.Database.Connection(),
		runtime.Agent,
		runtime.Logger,
		runtime.Pagination,
		promptsSystem,
		intentsSystem,
		runtime.EngineTimeout,
	)

	return &Domain{
		Intents:    intentsSystem,
		Dimensions: dimensionsSystem,
		Briefs:     briefsSystem,
		Prompts:    promptsSystem,
	}
}
