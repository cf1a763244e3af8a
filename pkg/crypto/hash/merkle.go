package hash

import (
	"errors"

	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
)

// ErrEmptyMerkleTree is returned by NewMerkleTree when given no hashes.
var ErrEmptyMerkleTree = errors.New("hash: empty merkle tree")

// CalcMerkleRoot computes a block's merkle root directly from its
// transaction hashes, without building the intermediate tree
// NewMerkleTree does: at each level, hashes are paired left-to-right,
// duplicating the last one if the level has an odd count, and each
// pair is combined with Hash256 until a single root remains. An empty
// list roots to the zero hash.
func CalcMerkleRoot(hashes []util.Uint256) util.Uint256 {
	if len(hashes) == 0 {
		return util.Uint256{}
	}
	level := make([]util.Uint256, len(hashes))
	copy(level, hashes)
	for len(level) > 1 {
		if len(level)%2 != 0 {
			level = append(level, level[len(level)-1])
		}
		next := make([]util.Uint256, len(level)/2)
		for i := range next {
			next[i] = hashPair(level[2*i], level[2*i+1])
		}
		level = next
	}
	return level[0]
}

func hashPair(a, b util.Uint256) util.Uint256 {
	buf := make([]byte, 0, 64)
	buf = append(buf, a.BytesLE()...)
	buf = append(buf, b.BytesLE()...)
	return Hash256(buf)
}

// merkleTreeNode is one node of a full merkle tree, kept around (not
// just the root) so callers that need intermediate proofs can walk it.
type merkleTreeNode struct {
	hash       util.Uint256
	parent     *merkleTreeNode
	leftChild  *merkleTreeNode
	rightChild *merkleTreeNode
}

// IsLeaf reports whether n has no children.
func (n *merkleTreeNode) IsLeaf() bool { return n.leftChild == nil && n.rightChild == nil }

// IsRoot reports whether n has no parent.
func (n *merkleTreeNode) IsRoot() bool { return n.parent == nil }

// MerkleTree is the full binary tree CalcMerkleRoot's iterative
// pairwise hashing is the flattened equivalent of.
type MerkleTree struct {
	root  *merkleTreeNode
	depth int
}

// NewMerkleTree builds the full tree over hashes, erroring if hashes
// is empty.
func NewMerkleTree(hashes []util.Uint256) (*MerkleTree, error) {
	if len(hashes) == 0 {
		return nil, ErrEmptyMerkleTree
	}
	nodes := make([]*merkleTreeNode, len(hashes))
	for i, h := range hashes {
		nodes[i] = &merkleTreeNode{hash: h}
	}
	depth := 1
	for len(nodes) > 1 {
		nodes = buildMerkleTreeLevel(nodes)
		depth++
	}
	return &MerkleTree{root: nodes[0], depth: depth}, nil
}

func buildMerkleTreeLevel(nodes []*merkleTreeNode) []*merkleTreeNode {
	if len(nodes)%2 != 0 {
		nodes = append(nodes, nodes[len(nodes)-1])
	}
	parents := make([]*merkleTreeNode, len(nodes)/2)
	for i := range parents {
		left, right := nodes[2*i], nodes[2*i+1]
		parent := &merkleTreeNode{
			hash:       hashPair(left.hash, right.hash),
			leftChild:  left,
			rightChild: right,
		}
		left.parent = parent
		right.parent = parent
		parents[i] = parent
	}
	return parents
}

// Root returns the tree's root hash.
func (t *MerkleTree) Root() util.Uint256 {
	return t.root.hash
}
