package syntax

import "testing"

func TestWalkAndCount(t *testing.T) {
	root := Branch("module", CategoryOther,
		Branch("if_statement", CategoryDecision,
			Leaf("if", CategoryOther, 0, "if"),
			Leaf("identifier", CategoryIdentifier, 0, "x"),
			Branch("block", CategoryOther,
				Leaf("identifier", CategoryIdentifier, 1, "y"),
			).WithField("consequence"),
		),
		Leaf("comment", CategoryComment, 2, "# done"),
	)

	if got := Count(root, func(n *Node) bool { return n.Category == CategoryIdentifier }); got != 2 {
		t.Fatalf("expected 2 identifiers, got %d", got)
	}

	var kinds []string
	Walk(root, func(n *Node) bool {
		kinds = append(kinds, n.Kind)
		return n.Kind != "if_statement"
	})
	if len(kinds) != 3 || kinds[2] != "comment" {
		t.Fatalf("expected pruned pre-order walk, got %v", kinds)
	}

	ifNode := root.Children[0]
	if ifNode.ChildByField("consequence") == nil {
		t.Fatal("expected consequence field to resolve")
	}
	if ifNode.ChildByField("alternative") != nil {
		t.Fatal("expected missing field to be nil")
	}
	if ifNode.Start.Row != 0 || ifNode.End.Row != 1 {
		t.Fatalf("unexpected span %+v-%+v", ifNode.Start, ifNode.End)
	}
}

func TestLeafMultilineEnd(t *testing.T) {
	leaf := Leaf("string_content", CategoryOther, 3, "a\nbc\n  d")
	if leaf.End.Row != 5 || leaf.End.Column != 3 {
		t.Fatalf("unexpected end %+v", leaf.End)
	}
}

func TestContentAndNamedChildren(t *testing.T) {
	params := Branch("parameters", CategoryOther,
		Leaf("(", CategoryOther, 0, "("),
		Leaf("identifier", CategoryIdentifier, 0, "a"),
		Leaf(",", CategoryOther, 0, ","),
		Leaf("identifier", CategoryIdentifier, 0, "b"),
		Leaf(")", CategoryOther, 0, ")"),
	)
	if params.Content() != "(a,b)" {
		t.Fatalf("unexpected content %q", params.Content())
	}
	if len(params.NamedChildren()) != 2 {
		t.Fatalf("expected 2 named children, got %d", len(params.NamedChildren()))
	}
	var nilNode *Node
	if nilNode.Content() != "" || nilNode.ChildOfKind("x") != nil {
		t.Fatal("expected nil-safe accessors")
	}
}
