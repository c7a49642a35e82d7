// Copyright 2021 Optakt Labs OÜ
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package engine

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Engine runs a set of components concurrently and shuts all of them down as
// soon as one finishes, one fails, or the context is canceled.
type Engine struct {
	log        zerolog.Logger
	components []*Component
}

// New creates a new engine.
func New(log zerolog.Logger, name string) *Engine {
	e := Engine{
		log: log.With().Str("engine", name).Logger(),
	}

	return &e
}

// Component registers a new component for the engine. Components will be shut down
// in the same order as the one in which they were registered.
func (e *Engine) Component(name string, run func() error, stop func()) *Engine {
	c := Component{
		log:  e.log.With().Str("component", name).Logger(),
		run:  run,
		stop: stop,
	}

	e.components = append(e.components, &c)

	return e
}

// Run launches the engine components and waits for them to either finish successfully,
// fail, or for the context to be canceled. It then stops every component and
// returns the first component failure, if any.
func (e *Engine) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	group, ctx := errgroup.WithContext(ctx)
	for _, component := range e.components {
		component := component
		group.Go(func() error {
			defer cancel()
			return component.Run()
		})
	}

	<-ctx.Done()
	e.log.Info().Msg("engine stopping")
	e.Stop()

	err := group.Wait()
	if err != nil {
		e.log.Warn().Msg("engine aborted")
		return fmt.Errorf("engine component failed: %w", err)
	}

	e.log.Info().Msg("engine done")
	return nil
}

// Stop stops each of the engine's components one by one, in the order in which they were
// registered.
func (e *Engine) Stop() {
	for _, component := range e.components {
		component.Stop()
	}
}
