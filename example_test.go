package roadnet_test

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/hupe1980/roadnet"
)

// Example demonstrates opening an index, loading objects and running a group
// range query with simulated cache analysis.
func Example() {
	ctx := context.Background()

	db, err := roadnet.Open(ctx, "./data", "graph.idx",
		roadnet.WithFrameCount(32),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.LoadObjects(ctx, strings.NewReader("5 100\n12 200\n")); err != nil {
		log.Fatal(err)
	}

	diameter, _, err := db.Diameter(ctx, 0)
	if err != nil {
		log.Fatal(err)
	}

	res, err := db.GroupRange().
		Source(5, 0.1*diameter).
		Source(12, 0.1*diameter).
		SimulateLRU(1, 10, 50).
		Execute(ctx)
	if err != nil {
		log.Fatal(err)
	}

	for _, r := range res.Results {
		fmt.Printf("node %d hosts object %d at group cost %.1f\n", r.Node, r.Object, r.Cost)
	}
	fmt.Printf("simulated hits: %v\n", res.Stats.SimulatedHits)
}
