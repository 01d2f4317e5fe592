package botforge_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/botforge"
	"github.com/aretw0/botforge/internal/assembler"
	"github.com/aretw0/botforge/pkg/domain"
)

// ExampleGenerator_Generate compiles a two-screen bot and lists the node blocks
// found in the program.
func ExampleGenerator_Generate() {
	project := domain.Project{
		Nodes: []domain.Node{
			{ID: "start", Kind: domain.KindStart, Data: map[string]any{
				"messageText": "Welcome!",
				"buttons": []any{
					map[string]any{"text": "About", "action": "goto", "target": "about"},
				},
			}},
			{ID: "about", Kind: domain.KindMessage, Data: map[string]any{"messageText": "We make bots."}},
		},
	}

	res, err := botforge.New().Generate(context.Background(), project)
	if err != nil {
		log.Fatal(err)
	}

	for _, id := range assembler.BlockIDs(res.Source) {
		fmt.Println("block:", id)
	}
	fmt.Println("nodes:", res.Nodes)
	// Output:
	// block: start
	// block: about
	// nodes: 2
}

// ExampleGenerator_Generate_failure shows that every failing node is reported.
func ExampleGenerator_Generate_failure() {
	project := domain.Project{
		Nodes: []domain.Node{
			{ID: "a", Kind: "sticker"},
			{ID: "b", Kind: domain.KindKeyboard, Data: map[string]any{"messageText": "pick one"}},
		},
	}

	_, err := botforge.New().Generate(context.Background(), project)
	fmt.Println(domain.ErrorCode(err))
	// Output:
	// GENERATION_FAILED
}
