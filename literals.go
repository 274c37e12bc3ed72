package btre

import "github.com/btre/btre/ast"

// extractPrefixLiterals walks the root node list of tree looking for
// required literal byte sequences the VM's unanchored search could use
// as a prefilter, mirroring (in miniature) the teacher's literal
// package: a leading run of plain literal nodes is a required prefix;
// a single top-level alternation whose every branch is itself such a
// run yields one required literal per branch. Anything else (a
// leading quantifier, class, or wildcard) has no useful required
// prefix and yields nil.
func extractPrefixLiterals(tree *ast.Tree, maxLiterals int) [][]byte {
	list := tree.Arena.Lists[tree.Root.NodesIndex]
	if len(list) == 0 {
		return nil
	}

	if len(list) == 1 && list[0].Kind == ast.KindAlternation {
		branches := flattenAlternation(tree.Arena, list[0])
		if len(branches) < 2 || len(branches) > maxLiterals {
			return nil
		}
		literals := make([][]byte, 0, len(branches))
		for _, branchList := range branches {
			lit, ok := leadingLiteralRun(tree.Arena, branchList, true)
			if !ok {
				return nil
			}
			literals = append(literals, lit)
		}
		return literals
	}

	lit, ok := leadingLiteralRun(tree.Arena, list, false)
	if !ok || len(lit) == 0 {
		return nil
	}
	return [][]byte{lit}
}

// flattenAlternation recovers the original branch order from the
// left-nested chain the parser builds (see ast.parser's flat
// left-factoring rule): it walks left repeatedly, collecting the right
// arm of each alternation node, then reverses.
func flattenAlternation(arena *ast.Arena, node ast.Node) [][]ast.Node {
	var branches [][]ast.Node
	for {
		right := arena.Lists[node.RightIndex]
		branches = append(branches, right)
		left := arena.Lists[node.NodesIndex]
		if len(left) == 1 && left[0].Kind == ast.KindAlternation {
			node = left[0]
			continue
		}
		branches = append(branches, left)
		break
	}
	for i, j := 0, len(branches)-1; i < j; i, j = i+1, j-1 {
		branches[i], branches[j] = branches[j], branches[i]
	}
	return branches
}

// leadingLiteralRun returns the bytes of a leading run of literal
// nodes in list. When full is true, every node in list must be a
// literal or the run is rejected (used for alternation branches, which
// must be entirely literal to safely require one of their bytes).
func leadingLiteralRun(arena *ast.Arena, list []ast.Node, full bool) ([]byte, bool) {
	var out []byte
	for _, n := range list {
		if n.Kind != ast.KindLiteral {
			break
		}
		out = append(out, n.Byte)
	}
	if full && len(out) != len(list) {
		return nil, false
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}
