package treeparse_test

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/treetui/pkg/tree"
	"github.com/matzehuels/treetui/pkg/treeparse"
)

func ExampleParse() {
	input := `my-project
├─ src
│  ├─ main.go
│  └─ util.go
└─ go.mod
`
	res, err := treeparse.Parse(context.Background(), strings.NewReader(input),
		treeparse.DefaultConfig(), treeparse.Options{Heading: true})
	if err != nil {
		panic(err)
	}

	a := res.Arena
	_ = a.Walk(func(id tree.NodeID, depth int) error {
		fmt.Printf("%s%s\n", strings.Repeat("  ", depth), a.Label(id))
		return nil
	})
	fmt.Println("nodes:", res.Stats.Nodes)
	// Output:
	// my-project
	//   src
	//     main.go
	//     util.go
	//   go.mod
	// nodes: 4
}

func ExampleParse_dangling() {
	input := "root\n├─ a\n         └─ lost\n"
	_, err := treeparse.Parse(context.Background(), strings.NewReader(input),
		treeparse.DefaultConfig(), treeparse.Options{Heading: true})

	var dangling *treeparse.DanglingAnchorError
	if errors.As(err, &dangling) {
		fmt.Println("line", dangling.Line, "column", dangling.Column)
	}
	// Output:
	// line 3 column 9
}

func ExampleClassifier_Classify() {
	c, err := treeparse.NewClassifier(treeparse.DefaultConfig())
	if err != nil {
		panic(err)
	}
	l, ok := c.Classify("│  └─ util.go")
	fmt.Println(ok, l.Anchor, l.Data, l.Text)
	_, ok = c.Classify("my-project")
	fmt.Println(ok)
	// Output:
	// true 3 6 util.go
	// false
}
