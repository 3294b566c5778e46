// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command taskcli is a small task manager demonstrating the builder
// surface, middleware, and a plugin that records timing through the
// event bus.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gavelrun/gavel/pkg/cli"
	"github.com/gavelrun/gavel/pkg/command"
	"github.com/gavelrun/gavel/pkg/kernel"
)

var tasks = map[string]bool{}

func main() {
	app := cli.New("taskcli", "a tiny task manager", cli.WithVersion("0.3.0"))

	if err := app.Kernel().Register(timingPlugin()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	app.Command("add", "add one or more tasks").
		Argument("<titles...>", "task titles").
		Option("--done", "create already completed").
		Action(func(_ context.Context, inv *command.Invocation) error {
			done, _ := inv.Options["done"].(bool)
			for _, t := range inv.Args["titles"].([]any) {
				tasks[t.(string)] = done
			}
			fmt.Printf("added %d task(s)\n", len(inv.Args["titles"].([]any)))
			return nil
		})

	app.Command("list", "list tasks").
		Alias("ls").
		Option("--all", "include completed tasks").
		Action(func(_ context.Context, inv *command.Invocation) error {
			all, _ := inv.Options["all"].(bool)
			for title, done := range tasks {
				if done && !all {
					continue
				}
				mark := " "
				if done {
					mark = "x"
				}
				fmt.Printf("[%s] %s\n", mark, title)
			}
			return nil
		})

	done := app.Command("done", "mark a task completed").
		Argument("<title>", "task title")
	done.Use(func(_ context.Context, inv *command.Invocation, next func() error) error {
		title := inv.Args["title"].(string)
		if _, ok := tasks[title]; !ok {
			return fmt.Errorf("no such task %q", title)
		}
		return next()
	})
	done.Action(func(_ context.Context, inv *command.Invocation) error {
		tasks[inv.Args["title"].(string)] = true
		return nil
	})

	app.RunArgs(context.Background())
}

// timingPlugin prints how long each command took.
func timingPlugin() kernel.Plugin {
	var start time.Time
	return kernel.Plugin{
		Name:    "timing",
		Version: "1.0.0",
		Install: func(k *kernel.Kernel) error {
			k.On(cli.EventCommandBefore, func(context.Context, any) error {
				start = time.Now()
				return nil
			})
			k.On(cli.EventCommandAfter, func(_ context.Context, data any) error {
				ev := data.(cli.CommandEvent)
				fmt.Printf("%s finished in %s\n", ev.Command.Name(), time.Since(start).Round(time.Millisecond))
				return nil
			})
			return nil
		},
	}
}
