/*
Package botforge turns a visual Telegram bot flow into a runnable Python bot.

The builder UI exports a project: nodes (screens, commands, inputs, conditions,
broadcasts, admin actions), the connections between them and a few
per-project options. botforge compiles that graph into a single aiogram 3
program in one deterministic pass.

# Concept

Generation is a pipeline of pure stages. The resolver indexes the graph once
(ids, outgoing edges, auto-transition targets, multi-select nodes), a registry
of per-kind compilers turns every node into a marked block of Python, and the
assembler wraps the blocks with imports, configuration, runtime helpers, the
handler registry and the entry point. The same project always yields the same
program, byte for byte.

# Key Features

  - Deterministic Output: No timestamps, no map-order dependence.
  - Whole-Graph Failure Reports: Every failing node is listed, not just the first.
  - Block Markers: Each node's code sits between # @@BOTFORGE:BEGIN/END markers
    so tools can find or replace it.
  - Pluggable Surfaces: CLI, HTTP API and MCP server share one Generator;
    programs can be cached in memory or Redis.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/botforge"
		"github.com/aretw0/botforge/pkg/domain"
	)

	func main() {
		project := domain.Project{
			Nodes: []domain.Node{
				{ID: "start", Kind: domain.KindStart, Data: map[string]any{"messageText": "Hello!"}},
			},
		}

		gen := botforge.New()
		res, err := gen.Generate(context.Background(), project)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Print(res.Source)
	}
*/
package botforge
