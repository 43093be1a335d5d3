package types

import (
	"fmt"
	"strings"
)

const (
	treeLevelEmpty               = "        "
	treeLevelOngoing             = "  |     "
	treeLevelPrefix              = "  |%s: "
	treeLevelPrefixLast          = `  \%s: `
	treeLevelPrefixNamePadChar   = '-'
	treeLevelPrefixNamePadAmount = 3
)

func makeTreeLevelPrefix(msg string) string {
	for len([]rune(msg)) < treeLevelPrefixNamePadAmount {
		msg = string(treeLevelPrefixNamePadChar) + msg
	}
	return fmt.Sprintf(treeLevelPrefix, msg)
}

func makeTreeLevelPrefixLast(msg string) string {
	for len([]rune(msg)) < treeLevelPrefixNamePadAmount {
		msg = string(treeLevelPrefixNamePadChar) + msg
	}
	return fmt.Sprintf(treeLevelPrefixLast, msg)
}

// ParseTree is a node in the concrete parse tree (parse forest node, strictly
// speaking, since grammars in this package are not required to be
// unambiguous) produced by a successful parse.
type ParseTree struct {
	// Terminal is whether this node is for a terminal symbol.
	Terminal bool

	// Value is the symbol at this node.
	Value string

	// Source is only meaningful when Terminal is true.
	Source Token

	// Children holds all children of the node, in left-to-right production
	// order.
	Children []*ParseTree

	// Body is the right-hand-side symbol sequence of the production that
	// derived this non-terminal node. Unused for terminal nodes.
	Body []string

	// Attr is the synthesized semantic value computed for this node by a
	// bound Handler, if any was bound for the production that derived it.
	// Unused (nil) for terminal nodes and for non-terminal nodes with no
	// bound handler.
	Attr any

	// Loc is the source span covering this node, computed as the union of
	// its children's spans. Unused for terminal nodes, whose location comes
	// from Source.Location() instead.
	Loc Location
}

// Location returns the source span of the node: Source.Location() for a
// terminal, or the computed Loc for a non-terminal.
func (pt *ParseTree) Location() Location {
	if pt.Terminal {
		if pt.Source == nil {
			return Location{}
		}
		return pt.Source.Location()
	}
	return pt.Loc
}

// String returns a prettified representation of the tree suitable for
// line-by-line structural comparison. Two trees are considered semantically
// identical if they produce identical String() output.
func (pt ParseTree) String() string {
	return pt.leveledStr("", "")
}

// Copy returns a deep copy of the tree.
func (pt ParseTree) Copy() ParseTree {
	newPt := ParseTree{
		Terminal: pt.Terminal,
		Value:    pt.Value,
		Source:   pt.Source,
		Children: make([]*ParseTree, len(pt.Children)),
		Body:     append([]string{}, pt.Body...),
		Attr:     pt.Attr,
		Loc:      pt.Loc,
	}
	for i := range pt.Children {
		if pt.Children[i] != nil {
			newChild := pt.Children[i].Copy()
			newPt.Children[i] = &newChild
		}
	}
	return newPt
}

func (pt ParseTree) leveledStr(firstPrefix, contPrefix string) string {
	var sb strings.Builder

	sb.WriteString(firstPrefix)
	if pt.Terminal {
		sb.WriteString(fmt.Sprintf("(TERM %q)", pt.Value))
	} else {
		sb.WriteString(fmt.Sprintf("( %s )", pt.Value))
	}

	for i := range pt.Children {
		sb.WriteRune('\n')
		var leveledFirstPrefix, leveledContPrefix string
		if i+1 < len(pt.Children) {
			leveledFirstPrefix = contPrefix + makeTreeLevelPrefix("")
			leveledContPrefix = contPrefix + treeLevelOngoing
		} else {
			leveledFirstPrefix = contPrefix + makeTreeLevelPrefixLast("")
			leveledContPrefix = contPrefix + treeLevelEmpty
		}
		sb.WriteString(pt.Children[i].leveledStr(leveledFirstPrefix, leveledContPrefix))
	}

	return sb.String()
}

// Equal returns whether pt and o have the exact same structure (same
// terminal/non-terminal shape and values at every node).
func (pt ParseTree) Equal(o any) bool {
	other, ok := o.(ParseTree)
	if !ok {
		otherPtr, ok := o.(*ParseTree)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if pt.Terminal != other.Terminal || pt.Value != other.Value {
		return false
	}
	if len(pt.Children) != len(other.Children) {
		return false
	}
	for i := range pt.Children {
		if !pt.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

// Leaves returns every terminal-node Token in the tree, in left-to-right
// order.
func (pt ParseTree) Leaves() []Token {
	var toks []Token
	if pt.Terminal {
		if pt.Source != nil {
			toks = append(toks, pt.Source)
		}
		return toks
	}
	for _, c := range pt.Children {
		if c != nil {
			toks = append(toks, c.Leaves()...)
		}
	}
	return toks
}
