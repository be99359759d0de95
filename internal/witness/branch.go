package witness

import (
	"fmt"

	"github.com/Klingon-tech/mina-indexer/pkg/types"
)

// Branch is a tree of Nodes stored in an arena (slice indexed by nodeID),
// per spec §9. rootID names the tree's root; a Branch with no nodes is
// invalid and never constructed directly (use newBranch).
type Branch struct {
	nodes  map[nodeID]*Node
	byHash map[types.StateHash]nodeID
	nextID nodeID
	rootID nodeID
}

func newBranch() *Branch {
	return &Branch{
		nodes:  make(map[nodeID]*Node),
		byHash: make(map[types.StateHash]nodeID),
	}
}

// insert adds n as a new node under parent (noParent for a root) and
// returns its assigned id.
func (b *Branch) insert(n *Node, parent nodeID) nodeID {
	b.nextID++
	id := b.nextID
	n.id = id
	n.parent = parent
	b.nodes[id] = n
	b.byHash[n.StateHash] = id
	if parent != noParent {
		pn := b.nodes[parent]
		pn.children = append(pn.children, id)
	} else {
		b.rootID = id
	}
	return id
}

// has reports whether hash names a node in this branch.
func (b *Branch) has(hash types.StateHash) bool {
	_, ok := b.byHash[hash]
	return ok
}

// byStateHash returns the node for hash, or nil.
func (b *Branch) byStateHash(hash types.StateHash) *Node {
	id, ok := b.byHash[hash]
	if !ok {
		return nil
	}
	return b.nodes[id]
}

// root returns the branch's root node.
func (b *Branch) root() *Node { return b.nodes[b.rootID] }

// leaves returns every node with no children.
func (b *Branch) leaves() []*Node {
	var out []*Node
	for _, n := range b.nodes {
		if n.IsLeaf() {
			out = append(out, n)
		}
	}
	return out
}

// path returns the ancestor chain from the root down to n, inclusive.
func (b *Branch) path(n *Node) []*Node {
	var rev []*Node
	cur := n
	for cur != nil {
		rev = append(rev, cur)
		if cur.parent == noParent {
			break
		}
		cur = b.nodes[cur.parent]
	}
	out := make([]*Node, len(rev))
	for i, n := range rev {
		out[len(rev)-1-i] = n
	}
	return out
}

// commonAncestor returns the lowest common ancestor of a and b within this
// branch. Both must already be members.
func (b *Branch) commonAncestor(a, c *Node) (*Node, error) {
	pa := b.path(a)
	pc := b.path(c)
	var lca *Node
	for i := 0; i < len(pa) && i < len(pc); i++ {
		if pa[i].id != pc[i].id {
			break
		}
		lca = pa[i]
	}
	if lca == nil {
		return nil, fmt.Errorf("witness: no common ancestor within branch")
	}
	return lca, nil
}

// absorb grafts other onto b at the node in b matching other's root's
// PrevStateHash, re-parenting other's root (and transitively its whole
// subtree) under that node. other must be a single-root dangling branch
// whose root's parent is known to exist in b.
func (b *Branch) absorb(other *Branch) error {
	attachAt := b.byStateHash(other.root().PrevStateHash)
	if attachAt == nil {
		return fmt.Errorf("witness: absorb target %s not found", other.root().PrevStateHash)
	}
	offset := b.nextID
	for id, n := range other.nodes {
		newID := id + offset
		ncopy := *n
		ncopy.id = newID
		if ncopy.parent != noParent {
			ncopy.parent = ncopy.parent + offset
		} else {
			ncopy.parent = attachAt.id
		}
		for i := range ncopy.children {
			ncopy.children[i] = ncopy.children[i] + offset
		}
		b.nodes[newID] = &ncopy
		b.byHash[ncopy.StateHash] = newID
	}
	attachAt.children = append(attachAt.children, other.root().id+offset)
	if other.nextID > 0 {
		b.nextID += other.nextID
	}
	return nil
}
