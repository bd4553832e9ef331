package document

// OperationType names an atomic tree edit.
type OperationType string

const (
	OpInsertNode OperationType = "insert_node"
	OpRemoveNode OperationType = "remove_node"
	OpMoveNode   OperationType = "move_node"
	OpSetNode    OperationType = "set_node"
	OpSplitNode  OperationType = "split_node"
	OpMergeNode  OperationType = "merge_node"
	OpInsertText OperationType = "insert_text"
	OpRemoveText OperationType = "remove_text"
)

// Properties are the settable fields of a node. Nil pointers leave the
// field unchanged. Data is applied only when SetData is true, which
// allows clearing it.
type Properties struct {
	Type      *Type
	ID        *string
	Data      Data
	SetData   bool
	FirstEdit *bool
	Marks     *Marks
}

// IsZero reports whether the properties change nothing.
func (p Properties) IsZero() bool {
	return p.Type == nil && p.ID == nil && !p.SetData && p.FirstEdit == nil && p.Marks == nil
}

// Operation is one atomic edit. Fields are interpreted per Type:
//
//   - insert_node: Path, Node
//   - remove_node: Path, Node (the removed node, filled by Apply)
//   - move_node:   Path, NewPath (the path the node has after the move)
//   - set_node:    Path, Properties
//   - split_node:  Path, Position (text offset or child index), Properties of the new node
//   - merge_node:  Path (the second node), Position (length of the first node)
//   - insert_text: Path, Offset, Text
//   - remove_text: Path, Offset, Text
type Operation struct {
	Type       OperationType
	Path       Path
	NewPath    Path
	Node       Node
	Offset     int
	Text       string
	Position   int
	Properties Properties
}

func InsertNodeOp(at Path, n Node) Operation {
	return Operation{Type: OpInsertNode, Path: at.Copy(), Node: n}
}

func RemoveNodeOp(at Path) Operation {
	return Operation{Type: OpRemoveNode, Path: at.Copy()}
}

func MoveNodeOp(at, to Path) Operation {
	return Operation{Type: OpMoveNode, Path: at.Copy(), NewPath: to.Copy()}
}

func SetNodeOp(at Path, props Properties) Operation {
	return Operation{Type: OpSetNode, Path: at.Copy(), Properties: props}
}

func SplitNodeOp(at Path, position int, props Properties) Operation {
	return Operation{Type: OpSplitNode, Path: at.Copy(), Position: position, Properties: props}
}

func MergeNodeOp(at Path, position int) Operation {
	return Operation{Type: OpMergeNode, Path: at.Copy(), Position: position}
}

func InsertTextOp(at Path, offset int, text string) Operation {
	return Operation{Type: OpInsertText, Path: at.Copy(), Offset: offset, Text: text}
}

func RemoveTextOp(at Path, offset int, text string) Operation {
	return Operation{Type: OpRemoveText, Path: at.Copy(), Offset: offset, Text: text}
}

// AffectedPaths returns the paths whose nodes must be re-normalized after
// op was applied: the ancestors of every touched location plus the
// touched nodes themselves, expressed in post-operation coordinates.
func (op Operation) AffectedPaths() []Path {
	switch op.Type {
	case OpInsertText, OpRemoveText, OpSetNode:
		return append(op.Path.Ancestors(), op.Path.Copy())

	case OpInsertNode:
		result := op.Path.Ancestors()
		Walk(op.Node, func(_ Node, rel Path) bool {
			result = append(result, append(op.Path.Copy(), rel...))
			return true
		})
		return result

	case OpRemoveNode:
		return op.Path.Ancestors()

	case OpMergeNode:
		prev, _ := op.Path.Previous()
		return append(op.Path.Ancestors(), prev)

	case OpSplitNode:
		return append(op.Path.Ancestors(), op.Path.Copy(), op.Path.Next())

	case OpMoveNode:
		if op.Path.Equal(op.NewPath) {
			return nil
		}
		var result []Path
		for _, ancestor := range op.Path.Ancestors() {
			if p, ok := ancestor.Transform(op, AffinityForward); ok {
				result = append(result, p)
			}
		}
		moved, _ := op.Path.Transform(op, AffinityForward)
		result = append(result, moved.Ancestors()...)
		return append(result, moved)
	}
	return nil
}
