// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command greet is the smallest possible application: one command, one
// argument, one option.
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/gavelrun/gavel/pkg/cli"
	"github.com/gavelrun/gavel/pkg/command"
)

func main() {
	app := cli.New("greet", "say hello")

	app.Root().
		Argument("<name>", "who to greet").
		Option("--shout", "uppercase the greeting").
		Action(func(_ context.Context, inv *command.Invocation) error {
			msg := fmt.Sprintf("Hello, %s!", inv.Args["name"])
			if shout, _ := inv.Options["shout"].(bool); shout {
				msg = strings.ToUpper(msg)
			}
			fmt.Println(msg)
			return nil
		})

	app.RunArgs(context.Background())
}
